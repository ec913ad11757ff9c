package app

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/internal/logging"
)

// EnvFiles are loaded, when present, before flags are parsed. Variables
// already set in the environment win.
var EnvFiles = []string{".dev.vars", ".env"}

type StoreConfig struct {
	Driver      string `help:"Record store backend" enum:"postgres,sqlite,memory" default:"postgres" env:"RECIPES_STORE"`
	DatabaseUrl string `name:"database-url" help:"Postgres connection string or sqlite file path" env:"DATABASE_URL"`
}

type EmbedderConfig struct {
	Provider     string `help:"Embedding provider" enum:"openai,google,hashing" default:"openai" env:"EMBEDDING_PROVIDER"`
	Model        string `help:"Embedding model, empty for the provider default" env:"EMBEDDING_MODEL"`
	Dimensions   int    `help:"Embedding length, 0 for the provider default" default:"0" env:"EMBEDDING_DIMENSIONS"`
	OpenAIApiKey string `name:"openai-api-key" help:"OpenAI API key" env:"OPENAI_API_KEY"`
	GoogleApiKey string `name:"google-api-key" help:"Google AI API key" env:"GOOGLE_API_KEY"`
}

type LogConfig struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"LOG_LEVEL"`
}

// Apply installs a console logger at the configured level as the default.
func (c LogConfig) Apply() {
	logging.SetDefault(logging.New(c.LogLevel, os.Stderr))
}

func LoadEnv() error {
	for _, file := range EnvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return goerr.Wrap(err, "failed to load env file", goerr.V("file", file))
		}
	}
	return nil
}
