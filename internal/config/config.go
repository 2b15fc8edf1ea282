// Package config stores the registered Canvas servers and course aliases in a
// TOML file under the user configuration directory.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appName    = "canvas-course-tools"
	configFile = "config.toml"
)

type Server struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

type Course struct {
	Server   string `toml:"server"`
	CourseID int    `toml:"course_id"`
}

type Config struct {
	Servers map[string]Server `toml:"servers"`
	Courses map[string]Course `toml:"courses"`
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, configFile), nil
}

// Read loads the configuration file. A missing or unparsable file yields an
// empty configuration with initialized maps.
func Read() Config {
	path, err := Path()
	if err != nil {
		return empty()
	}
	return ReadFile(path)
}

// ReadFile loads a configuration from an explicit path.
func ReadFile(path string) Config {
	cfg := empty()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return empty()
	}
	if cfg.Servers == nil {
		cfg.Servers = map[string]Server{}
	}
	if cfg.Courses == nil {
		cfg.Courses = map[string]Course{}
	}
	return cfg
}

// Write regenerates the whole configuration file from cfg. The TOML is fully
// encoded in memory first, so an encoding failure can never truncate the
// existing file.
func Write(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return WriteFile(path, cfg)
}

// WriteFile writes a configuration to an explicit path, creating the
// directory when necessary.
func WriteFile(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func empty() Config {
	return Config{Servers: map[string]Server{}, Courses: map[string]Course{}}
}
