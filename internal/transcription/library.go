package transcription

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// AudioInfo descreve um arquivo de áudio disponível para teste.
type AudioInfo struct {
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	Language     string `json:"language,omitempty"`
	ExpectedText string `json:"expected_text,omitempty"`
}

// Library lista e lê os áudios de teste de um diretório local. O arquivo
// padrão carrega o texto esperado configurado.
type Library struct {
	dir          string
	defaultFile  string
	expectedText string
	logger       *zap.Logger
}

func NewLibrary(dir, defaultFile, expectedText string, logger *zap.Logger) *Library {
	return &Library{
		dir:          dir,
		defaultFile:  defaultFile,
		expectedText: expectedText,
		logger:       logger,
	}
}

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
	".webm": true,
}

// List devolve os áudios reconhecidos no diretório. Diretório ausente ou
// ilegível conta como biblioteca vazia.
func (l *Library) List() []AudioInfo {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.logger.Warn("read audio dir failed", zap.String("dir", l.dir), zap.Error(err))
		return []AudioInfo{}
	}

	audios := make([]AudioInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		audio := AudioInfo{
			Filename: entry.Name(),
			Size:     info.Size(),
		}
		if entry.Name() == l.defaultFile {
			audio.ExpectedText = l.expectedText
		}
		audios = append(audios, audio)
	}
	return audios
}

// Find localiza um áudio listado pelo nome.
func (l *Library) Find(filename string) (AudioInfo, bool) {
	for _, audio := range l.List() {
		if audio.Filename == filename {
			return audio, true
		}
	}
	return AudioInfo{}, false
}

// Default devolve o áudio padrão configurado.
func (l *Library) Default() (AudioInfo, bool) {
	return l.Find(l.defaultFile)
}

// Read carrega o conteúdo de um áudio do diretório. O nome é saneado para
// não escapar da pasta.
func (l *Library) Read(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.dir, filepath.Base(filename)))
}
