// Package config provides TOML configuration loading for vprinter
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds top-level daemon settings
type ServerConfig struct {
	Name     string `toml:"name"`
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`
	Console  bool   `toml:"console"`
}

// LimitsConfig bounds image dimensions fed to the attribute synthesis context
type LimitsConfig struct {
	MaxImageWidth  int `toml:"max_image_width"`
	MaxImageHeight int `toml:"max_image_height"`
}

// InfraConfig controls infrastructure printer aggregation
type InfraConfig struct {
	PollSeconds int `toml:"poll_seconds"`
}

// PrinterConfig declares one printer to create at startup
type PrinterConfig struct {
	Name   string `toml:"name"`
	Driver string `toml:"driver"` // driver name, or "infra" for an infrastructure printer
}

// Settings is the full daemon configuration
type Settings struct {
	Server   ServerConfig    `toml:"server"`
	Limits   LimitsConfig    `toml:"limits"`
	Infra    InfraConfig     `toml:"infra"`
	Printers []PrinterConfig `toml:"printer"`
}

// Default returns settings with sensible defaults applied
func Default() Settings {
	return Settings{
		Server: ServerConfig{
			Name:     "vprinter",
			DataDir:  defaultDataDir(),
			LogLevel: "INFO",
			Console:  true,
		},
		Limits: LimitsConfig{
			MaxImageWidth:  16384,
			MaxImageHeight: 16384,
		},
		Infra: InfraConfig{
			PollSeconds: 60,
		},
	}
}

// Load reads settings from the given path, applying defaults for anything
// the file does not set. A missing file is not an error; defaults are used.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse config: %w", err)
	}

	if settings.Infra.PollSeconds <= 0 {
		settings.Infra.PollSeconds = 60
	}
	if settings.Limits.MaxImageWidth <= 0 {
		settings.Limits.MaxImageWidth = 16384
	}
	if settings.Limits.MaxImageHeight <= 0 {
		settings.Limits.MaxImageHeight = 16384
	}

	return settings, nil
}

// FindConfigFile searches platform-appropriate locations for a config file.
// Returns the first path that exists, or the bare filename if none do.
func FindConfigFile(filename string) string {
	for _, path := range configSearchPaths(filename) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filename
}

// configSearchPaths returns an ordered list of paths to search for config files
func configSearchPaths(filename string) []string {
	var searchPaths []string

	// 1. System directory (highest priority for services)
	switch runtime.GOOS {
	case "windows":
		searchPaths = append(searchPaths, filepath.Join(os.Getenv("ProgramData"), "vprinter", filename))
	case "darwin":
		searchPaths = append(searchPaths, filepath.Join("/Library/Application Support", "vprinter", filename))
	default: // Linux and other Unix-like
		searchPaths = append(searchPaths, filepath.Join("/etc/vprinter", filename))
	}

	// 2. User-specific config directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "windows":
			searchPaths = append(searchPaths, filepath.Join(homeDir, "AppData", "Local", "vprinter", filename))
		case "darwin":
			searchPaths = append(searchPaths, filepath.Join(homeDir, "Library", "Application Support", "vprinter", filename))
		default:
			searchPaths = append(searchPaths, filepath.Join(homeDir, ".config", "vprinter", filename))
		}
	}

	// 3. Executable directory
	if exePath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(exePath), filename))
	}

	// 4. Current working directory (lowest priority)
	searchPaths = append(searchPaths, filepath.Join(".", filename))

	return searchPaths
}

func defaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "vprinter")
	case "darwin":
		return filepath.Join("/Library/Application Support", "vprinter")
	default:
		return "/var/lib/vprinter"
	}
}
