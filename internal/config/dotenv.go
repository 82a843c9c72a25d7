package config

import (
	"errors"
	"io/fs"
	"os"

	"family-album-go/pkg/logger"
	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// loadDotEnv fills unset variables from .env. Variables already present in the
// process environment win.
func loadDotEnv(log logger.Logger) error {
	if _, err := os.Stat(dotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("config: .env not found, using process environment")
			return nil
		}
		return err
	}

	if err := godotenv.Load(dotEnvFile); err != nil {
		return err
	}

	log.Info("config: loaded .env")
	return nil
}
