package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Faultbox/midgard-strip/internal/assets"
	"github.com/Faultbox/midgard-strip/internal/meshdata"
	"github.com/Faultbox/midgard-strip/pkg/formats"
)

// ErrUnsupportedFormat is returned for files that are neither RSM nor OBJ.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// LoadOptions controls how source files become jobs.
type LoadOptions struct {
	// Extensions lists the file extensions picked up from directories and
	// archives. Empty means .rsm and .obj.
	Extensions []string
	// TwoSided emits back faces for two-sided RSM faces.
	TwoSided bool
}

// Accepts reports whether name has one of the accepted extensions.
func (o LoadOptions) Accepts(name string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = []string{".rsm", ".obj"}
	}
	return slices.ContainsFunc(exts, func(ext string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	})
}

// LoadBytes decodes one mesh file by extension.
func LoadBytes(name string, data []byte, opts LoadOptions) ([]Job, error) {
	var meshes []*meshdata.Mesh
	switch strings.ToLower(filepath.Ext(name)) {
	case ".rsm":
		rsm, err := formats.ParseRSM(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		meshes, err = meshdata.FromRSM(name, rsm, meshdata.RSMOptions{TwoSided: opts.TwoSided})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case ".obj":
		obj, err := formats.ParseOBJ(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		meshes = meshdata.FromOBJ(name, obj)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	jobs := make([]Job, len(meshes))
	for i, m := range meshes {
		jobs[i] = Job{Source: name, Mesh: m}
	}
	return jobs, nil
}

// LoadFile loads one mesh file from disk.
func LoadFile(path string, opts LoadOptions) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(path, data, opts)
}

// LoadPath loads a file, or every accepted file below a directory in
// lexical order.
func LoadPath(path string, opts LoadOptions) ([]Job, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return LoadFile(path, opts)
	}

	var jobs []Job
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !opts.Accepts(p) {
			return nil
		}
		fileJobs, err := LoadFile(p, opts)
		if err != nil {
			return err
		}
		jobs = append(jobs, fileJobs...)
		return nil
	})
	return jobs, err
}

// LoadArchive loads every accepted file matching pattern from the archives.
func LoadArchive(m *assets.Manager, pattern string, opts LoadOptions) ([]Job, error) {
	paths, err := m.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, p := range paths {
		if !opts.Accepts(p) {
			continue
		}
		data, err := m.Load(p)
		if err != nil {
			return nil, err
		}
		fileJobs, err := LoadBytes(p, data, opts)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, fileJobs...)
	}
	return jobs, nil
}
