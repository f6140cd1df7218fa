package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagCacheSize = flag.Int("cache", 0, "Target vertex cache size")
	flagMinStrip  = flag.Int("min-strip", -1, "Minimum strip length in faces")
	flagNoStitch  = flag.Bool("no-stitch", false, "Emit one group per strip instead of stitching")
	flagListsOnly = flag.Bool("lists", false, "Emit a cache optimized triangle list only")
	flagRestart   = flag.Bool("restart", false, "Separate strips with the restart index")
	flagReorder   = flag.Bool("reorder", false, "Reorder vertices into first-use order")
	flagValidate  = flag.Bool("validate", false, "Check generated strips against the input")
	flagWorkers   = flag.Int("workers", -1, "Concurrent meshes (0 = one per CPU)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagCacheSize > 0 {
		cfg.Strip.CacheSize = *flagCacheSize
	}
	if *flagMinStrip >= 0 {
		cfg.Strip.MinStripLength = *flagMinStrip
	}
	if *flagNoStitch {
		cfg.Strip.Stitch = false
	}
	if *flagListsOnly {
		cfg.Strip.ListsOnly = true
	}
	if *flagRestart {
		cfg.Strip.Restart = true
	}
	if *flagReorder {
		cfg.Strip.ReorderVertices = true
	}
	if *flagValidate {
		cfg.Strip.Validate = true
	}
	if *flagWorkers >= 0 {
		cfg.Pipeline.Workers = *flagWorkers
	}
}
