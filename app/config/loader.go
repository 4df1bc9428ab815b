package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of feed registration files
type Loader struct {
	feedsDir string
}

// NewLoader creates a new registration loader
func NewLoader(feedsDir string) *Loader {
	return &Loader{feedsDir: feedsDir}
}

// LoadAll loads all YAML registration files from the feeds directory
func (l *Loader) LoadAll() ([]*FeedConfig, error) {
	// Missing directory means no registrations yet
	if _, err := os.Stat(l.feedsDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.feedsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.feedsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	var configs []*FeedConfig
	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		configs = append(configs, config)
	}

	return configs, nil
}

func (l *Loader) loadFile(path string) (*FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config FeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

func (l *Loader) validate(config *FeedConfig) error {
	if config.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	if config.Name == "" {
		return fmt.Errorf("feed name is required")
	}

	if config.Filter != "" {
		if _, err := regexp.Compile(config.Filter); err != nil {
			return fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	return nil
}
