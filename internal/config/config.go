// Package config handles stripify configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all stripify settings.
type Config struct {
	Strip    StripConfig    `yaml:"strip" toml:"strip"`
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Data     DataConfig     `yaml:"data" toml:"data"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// StripConfig holds triangle strip generation settings.
type StripConfig struct {
	CacheSize       int  `yaml:"cache_size" toml:"cache_size"`
	MinStripLength  int  `yaml:"min_strip_length" toml:"min_strip_length"`
	Stitch          bool `yaml:"stitch" toml:"stitch"`
	ListsOnly       bool `yaml:"lists_only" toml:"lists_only"`
	Restart         bool `yaml:"restart" toml:"restart"`
	RestartIndex    int  `yaml:"restart_index" toml:"restart_index"`
	ReorderVertices bool `yaml:"reorder_vertices" toml:"reorder_vertices"`
	Validate        bool `yaml:"validate" toml:"validate"` // check output against input
}

// PipelineConfig holds batch processing settings.
type PipelineConfig struct {
	Workers    int      `yaml:"workers" toml:"workers"` // 0 = one per CPU
	Extensions []string `yaml:"extensions" toml:"extensions"`
	ReportFile string   `yaml:"report_file" toml:"report_file"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	GRFPaths []string `yaml:"grf_paths" toml:"grf_paths"` // Paths to GRF archives
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	def := tristrip.DefaultOptions()
	return &Config{
		Strip: StripConfig{
			CacheSize:      def.CacheSize,
			MinStripLength: def.MinStripLength,
			Stitch:         def.StitchStrips,
			RestartIndex:   0xFFFF,
		},
		Pipeline: PipelineConfig{
			Workers:    0,
			Extensions: []string{".rsm", ".obj"},
		},
		Data: DataConfig{
			GRFPaths: []string{"data.grf"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the strip settings into stripper options.
func (s StripConfig) Options() tristrip.Options {
	return tristrip.Options{
		CacheSize:       s.CacheSize,
		MinStripLength:  s.MinStripLength,
		StitchStrips:    s.Stitch,
		ListsOnly:       s.ListsOnly,
		Restart:         s.Restart,
		RestartIndex:    s.RestartIndex,
		ReorderVertices: s.ReorderVertices,
		ValidateOutput:  s.Validate,
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if err := c.Strip.Options().Validate(); err != nil {
		return fmt.Errorf("%w: strip: %w", ErrInvalidConfig, err)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("%w: pipeline: negative worker count %d", ErrInvalidConfig, c.Pipeline.Workers)
	}
	return nil
}
