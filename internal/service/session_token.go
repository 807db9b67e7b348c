package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const sessionTokenBytes = 32

// NewSessionToken gera o identificador de sessão usado como bearer token:
// um prefixo de ambiente, ":" e 32 bytes aleatórios em hex. O prefixo nunca
// contém ":", então o delimitador é inequívoco.
//
// Falha de entropia é fatal: não existe modo degradado aceitável para um
// token de sessão.
func NewSessionToken(production bool) string {
	prefix := "dev"
	if production {
		prefix = "fono"
	}

	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("session token: entropy source failed: %v", err))
	}

	return prefix + ":" + hex.EncodeToString(buf)
}
