package config

import "github.com/caarlos0/env/v10"

// Config centraliza a configuração do serviço.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"3000"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
	CookieDomain  string `env:"COOKIE_DOMAIN" envDefault:"localhost"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	TranscriptionAPIURL string `env:"TRANSCRIPTION_API_URL" envDefault:"http://localhost:8000/api/v1/transcribe/file"`
	TranscriptionAPIKey string `env:"TRANSCRIPTION_API_KEY"`

	TestAudioPath         string `env:"TEST_AUDIO_PATH" envDefault:"assets/audios"`
	DefaultAudioFile      string `env:"DEFAULT_AUDIO_FILE" envDefault:"teste.ogg"`
	ExpectedTranscription string `env:"EXPECTED_TRANSCRIPTION" envDefault:"Teste de transcrição"`
}

// LoadConfig carrega a configuração a partir de variáveis de ambiente.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction indica se o processo roda em modo de produção.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
