package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SimilarityScore mede sobreposição de palavras entre o texto esperado e o
// transcrito, de 0.0 a 1.0. Os dois lados são normalizados (minúsculas, sem
// acentos, sem pontuação) antes da comparação.
func SimilarityScore(expected, actual string) float64 {
	exp := normalizeTranscript(expected)
	act := normalizeTranscript(actual)

	if exp == act {
		return 1.0
	}

	expWords := strings.Fields(exp)
	if len(expWords) == 0 {
		return 0.0
	}

	actWords := make(map[string]bool)
	for _, w := range strings.Fields(act) {
		actWords[w] = true
	}

	matches := 0
	for _, w := range expWords {
		if actWords[w] {
			matches++
		}
	}

	return float64(matches) / float64(len(expWords))
}

// SimilarityInterpretation traduz o score numa faixa legível.
func SimilarityInterpretation(score float64) string {
	switch {
	case score >= 0.9:
		return "Excelente correspondência"
	case score >= 0.7:
		return "Boa correspondência"
	case score >= 0.5:
		return "Correspondência moderada"
	case score >= 0.3:
		return "Baixa correspondência"
	default:
		return "Correspondência muito baixa"
	}
}

func normalizeTranscript(s string) string {
	s = strings.ToLower(s)

	// Decompõe e remove marcas de acentuação.
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
