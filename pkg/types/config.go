// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	// Host is the interface to bind to (default "0.0.0.0").
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// Port is the port to listen on (default 3000).
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// ReadTimeout bounds reading the request body.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// GenerateTimeout is the wall-clock limit for one document generation (default 60s).
	GenerateTimeout time.Duration `json:"generate_timeout" yaml:"generate_timeout" mapstructure:"generate_timeout"`

	// CORSOrigins lists the browser origins allowed to call the API. Empty allows any origin.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`

	// Mode is the gin mode: debug, release, or test.
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`
}

// LibraryConfig holds settings for the local reference library.
type LibraryConfig struct {
	// Path is the SQLite database file (default "references.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// GenerationConfig holds defaults applied to every generated document.
type GenerationConfig struct {
	// Language selects the heading labels when a document does not set one.
	Language Language `json:"language" yaml:"language" mapstructure:"language"`

	// OutputDir is where the CLI writes documents when no -o is given.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// AppConfig groups all configuration sections.
type AppConfig struct {
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Library    LibraryConfig    `json:"library" yaml:"library" mapstructure:"library"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
}

// DefaultAppConfig returns the built-in defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			GenerateTimeout: 60 * time.Second,
			Mode:            "release",
		},
		Library: LibraryConfig{
			Path: "references.db",
		},
		Generation: GenerationConfig{
			Language:  LangEnglish,
			OutputDir: ".",
		},
	}
}
