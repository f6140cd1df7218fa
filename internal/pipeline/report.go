package pipeline

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

// GroupReport describes one generated primitive group.
type GroupReport struct {
	Mode    string `yaml:"mode"`
	Indices int    `yaml:"indices"`
}

// Report is the outcome for one mesh.
type Report struct {
	Name     string         `yaml:"name"`
	Source   string         `yaml:"source,omitempty"`
	Vertices int            `yaml:"vertices"`
	Groups   []GroupReport  `yaml:"groups,omitempty"`
	Before   tristrip.Stats `yaml:"before"`
	After    tristrip.Stats `yaml:"after"`
	Err      string         `yaml:"error,omitempty"`
}

// Summary totals a batch of reports.
type Summary struct {
	Meshes      int     `yaml:"meshes"`
	Failed      int     `yaml:"failed"`
	Triangles   int     `yaml:"triangles"`
	MissBefore  int     `yaml:"cache_misses_before"`
	MissAfter   int     `yaml:"cache_misses_after"`
	ACMRBefore  float64 `yaml:"acmr_before"`
	ACMRAfter   float64 `yaml:"acmr_after"`
	IndexBefore int     `yaml:"indices_before"`
	IndexAfter  int     `yaml:"indices_after"`
}

// Summarize totals reports. Failed meshes only count towards Failed.
func Summarize(reports []Report) Summary {
	var s Summary
	for _, r := range reports {
		s.Meshes++
		if r.Err != "" {
			s.Failed++
			continue
		}
		s.Triangles += r.After.Triangles
		s.MissBefore += r.Before.CacheMisses
		s.MissAfter += r.After.CacheMisses
		s.IndexBefore += r.Before.Indices
		s.IndexAfter += r.After.Indices
	}
	if s.Triangles > 0 {
		s.ACMRBefore = float64(s.MissBefore) / float64(s.Triangles)
		s.ACMRAfter = float64(s.MissAfter) / float64(s.Triangles)
	}
	return s
}

type document struct {
	Summary Summary  `yaml:"summary"`
	Meshes  []Report `yaml:"meshes"`
}

// WriteReport writes the summary and the per-mesh reports as YAML.
func WriteReport(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Summary: Summarize(reports), Meshes: reports}); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// WriteReportFile writes the report to path.
func WriteReportFile(path string, reports []Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteReport(f, reports)
}
