package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
)

// DefaultEnvFile is read when present and no -env flag is given.
const DefaultEnvFile = ".env"

// environment returns the process environment merged with the dotenv file.
// Variables already set in the process win over the file.
func environment(args []string) (map[string]string, error) {
	vars := make(map[string]string)

	path := flagx.EnvFile(args)
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	fileVars, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range fileVars {
			vars[k] = v
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars, nil
}

// parseEnv overlays cfg with USERDESK_* variables found in environ.
// Unset variables leave fields untouched.
func parseEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
