package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Strip.CacheSize != tristrip.DefaultCacheSize {
		t.Errorf("expected cache size %d, got %d", tristrip.DefaultCacheSize, cfg.Strip.CacheSize)
	}
	if cfg.Strip.MinStripLength != 0 {
		t.Errorf("expected min strip length 0, got %d", cfg.Strip.MinStripLength)
	}
	if !cfg.Strip.Stitch {
		t.Error("expected stitching to be enabled by default")
	}
	if cfg.Strip.ListsOnly || cfg.Strip.Restart {
		t.Error("expected lists-only and restart to be off by default")
	}
	if cfg.Pipeline.Workers != 0 {
		t.Errorf("expected 0 workers, got %d", cfg.Pipeline.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestStripOptions(t *testing.T) {
	s := StripConfig{
		CacheSize:       16,
		MinStripLength:  2,
		Stitch:          false,
		Restart:         true,
		RestartIndex:    0xFFFF,
		ReorderVertices: true,
		Validate:        true,
	}
	opts := s.Options()

	assert.Equal(t, tristrip.Options{
		CacheSize:       16,
		MinStripLength:  2,
		Restart:         true,
		RestartIndex:    0xFFFF,
		ReorderVertices: true,
		ValidateOutput:  true,
	}, opts)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlContent := `
strip:
  cache_size: 16
  min_strip_length: 3
  stitch: false
  restart: true
  restart_index: 65535
  validate: true

pipeline:
  workers: 4
  extensions: [".rsm"]
  report_file: "report.yaml"

data:
  grf_paths: ["data.grf", "rdata.grf"]

logging:
  level: "debug"
  log_file: "strip.log"
`
	tomlContent := `
[strip]
cache_size = 16
min_strip_length = 3
stitch = false
restart = true
restart_index = 65535
validate = true

[pipeline]
workers = 4
extensions = [".rsm"]
report_file = "report.yaml"

[data]
grf_paths = ["data.grf", "rdata.grf"]

[logging]
level = "debug"
log_file = "strip.log"
`

	tests := []struct {
		file    string
		content string
	}{
		{"stripify.yaml", yamlContent},
		{"stripify.toml", tomlContent},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, tt.file)
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))

			cfg := Default()
			require.NoError(t, loadFromFile(cfg, configPath))

			assert.Equal(t, 16, cfg.Strip.CacheSize)
			assert.Equal(t, 3, cfg.Strip.MinStripLength)
			assert.False(t, cfg.Strip.Stitch)
			assert.True(t, cfg.Strip.Restart)
			assert.Equal(t, 65535, cfg.Strip.RestartIndex)
			assert.True(t, cfg.Strip.Validate)
			assert.False(t, cfg.Strip.ListsOnly)

			assert.Equal(t, 4, cfg.Pipeline.Workers)
			assert.Equal(t, []string{".rsm"}, cfg.Pipeline.Extensions)
			assert.Equal(t, "report.yaml", cfg.Pipeline.ReportFile)
			assert.Equal(t, []string{"data.grf", "rdata.grf"}, cfg.Data.GRFPaths)

			assert.Equal(t, "debug", cfg.Logging.Level)
			assert.Equal(t, "strip.log", cfg.Logging.LogFile)
		})
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stripify.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[strip]\ncache_size = 10\n"), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 10, cfg.Strip.CacheSize)
	assert.True(t, cfg.Strip.Stitch, "unset keys keep their defaults")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"invalid.yaml": "strip:\n  cache_size: not a number\n  invalid syntax here\n",
		"invalid.toml": "[strip\ncache_size = \n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, name)
			require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

			cfg := Default()
			assert.Error(t, loadFromFile(cfg, configPath))
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/stripify.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero cache", func(c *Config) { c.Strip.CacheSize = 0 }, tristrip.ErrInvalidCacheSize},
		{"negative strip length", func(c *Config) { c.Strip.MinStripLength = -2 }, tristrip.ErrInvalidMinStripLength},
		{"negative restart index", func(c *Config) {
			c.Strip.Restart = true
			c.Strip.RestartIndex = -1
		}, tristrip.ErrInvalidRestartIndex},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "stripify.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[strip]\ncache_size = 12\n"), 0644))

	assert.Equal(t, "stripify.toml", filepath.Base(findConfigFile()))
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out/stripify.yaml", "out/stripify.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Strip.CacheSize = 12
			cfg.Pipeline.Workers = 3

			path := filepath.Join(tmpDir, name)
			require.NoError(t, cfg.SaveTo(path))

			loaded := Default()
			require.NoError(t, loadFromFile(loaded, path))
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "cache flag",
			setup: func() { *flagCacheSize = 16 },
			verify: func(cfg *Config) {
				if cfg.Strip.CacheSize != 16 {
					t.Errorf("expected cache size 16, got %d", cfg.Strip.CacheSize)
				}
			},
			teardown: func() { *flagCacheSize = 0 },
		},
		{
			name:  "min strip flag",
			setup: func() { *flagMinStrip = 4 },
			verify: func(cfg *Config) {
				if cfg.Strip.MinStripLength != 4 {
					t.Errorf("expected min strip length 4, got %d", cfg.Strip.MinStripLength)
				}
			},
			teardown: func() { *flagMinStrip = -1 },
		},
		{
			name:  "no-stitch flag",
			setup: func() { *flagNoStitch = true },
			verify: func(cfg *Config) {
				if cfg.Strip.Stitch {
					t.Error("expected stitching to be off with no-stitch flag")
				}
			},
			teardown: func() { *flagNoStitch = false },
		},
		{
			name: "mode flags",
			setup: func() {
				*flagListsOnly = true
				*flagRestart = true
				*flagReorder = true
				*flagValidate = true
			},
			verify: func(cfg *Config) {
				if !cfg.Strip.ListsOnly || !cfg.Strip.Restart || !cfg.Strip.ReorderVertices || !cfg.Strip.Validate {
					t.Errorf("expected all mode flags applied, got %+v", cfg.Strip)
				}
			},
			teardown: func() {
				*flagListsOnly = false
				*flagRestart = false
				*flagReorder = false
				*flagValidate = false
			},
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 2 },
			verify: func(cfg *Config) {
				if cfg.Pipeline.Workers != 2 {
					t.Errorf("expected 2 workers, got %d", cfg.Pipeline.Workers)
				}
			},
			teardown: func() { *flagWorkers = -1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stripify.yaml")
	yamlContent := `
strip:
  cache_size: 20
  min_strip_length: 2
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	*flagConfig = configPath
	*flagCacheSize = 16
	defer func() {
		*flagConfig = ""
		*flagCacheSize = 0
	}()

	cfg, err := Load()
	require.NoError(t, err)

	// Cache size comes from the flag, strip length from the file.
	assert.Equal(t, 16, cfg.Strip.CacheSize)
	assert.Equal(t, 2, cfg.Strip.MinStripLength)
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stripify.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("strip:\n  cache_size: -3\n"), 0644))

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
