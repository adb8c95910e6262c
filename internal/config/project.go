package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

const (
	// ProjectFileName is the optional project configuration file
	ProjectFileName = "starkswap.toml"

	// DefaultSuiteFile overrides the embedded suite when present
	DefaultSuiteFile = "starkswap.suite.yaml"
)

// loadEnvFiles loads .env and .env.local without overriding the environment
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadProjectFile parses starkswap.toml. A missing file yields an empty configuration.
func LoadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)
	project := &config.ProjectFile{}

	if _, err := toml.DecodeFile(path, project); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return project, nil
		}
		return nil, &domain.ConfigError{Field: ProjectFileName, Message: "failed to parse project file", Err: err}
	}
	return project, nil
}

// resolvePaths applies project overrides to the default layout
func resolvePaths(projectRoot string, pc config.PathsConfig) config.Paths {
	abs := func(p, def string) string {
		if p == "" {
			p = def
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(projectRoot, p)
	}

	return config.Paths{
		SourceDir:      abs(pc.Src, "src"),
		BuildDir:       abs(pc.Build, "build"),
		DeploymentsDir: abs(pc.Deployments, "deployments"),
		SuiteFile:      abs(pc.Suite, DefaultSuiteFile),
		AccountsDir:    abs(pc.Accounts, filepath.Join(".starkswap", "accounts")),
	}
}
