// Package tristrip converts indexed triangle lists into vertex cache friendly
// triangle strips. It is a Go rendition of NVIDIA's NvTriStrip.
//
// A Stripper is configured once and may be reused; every call builds and
// discards its own face/edge graph, so one Stripper can serve concurrent
// callers.
package tristrip

import (
	"fmt"

	"go.uber.org/zap"
)

// Common hardware cache sizes.
const (
	CacheSizeGeForce1_2 = 16
	CacheSizeGeForce3   = 24

	DefaultCacheSize = CacheSizeGeForce3
)

// MaxVertexIndex is the largest vertex index accepted. The adjacency graph
// keeps per-vertex tables sized by the largest index in the input.
const MaxVertexIndex = 1<<24 - 1

// StripSeparator separates strips in an unstitched index stream.
const StripSeparator = -1

// Options configures a Stripper.
type Options struct {
	// CacheSize is the target post-transform cache size.
	CacheSize int `yaml:"cache_size" toml:"cache_size"`
	// MinStripLength is the strip length below which faces go to a list.
	MinStripLength int `yaml:"min_strip_length" toml:"min_strip_length"`
	// StitchStrips joins all strips into one with degenerate triangles.
	StitchStrips bool `yaml:"stitch_strips" toml:"stitch_strips"`
	// ListsOnly outputs a single cache optimized triangle list.
	ListsOnly bool `yaml:"lists_only" toml:"lists_only"`
	// Restart separates strips with RestartIndex instead of stitching.
	Restart      bool `yaml:"restart" toml:"restart"`
	RestartIndex int  `yaml:"restart_index" toml:"restart_index"`
	// ReorderVertices makes Visit remap vertices into first-use order.
	ReorderVertices bool `yaml:"reorder_vertices" toml:"reorder_vertices"`
	// ValidateOutput makes Visit check every generated triangle against the input.
	ValidateOutput bool `yaml:"validate_output" toml:"validate_output"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		CacheSize:      DefaultCacheSize,
		MinStripLength: 0,
		StitchStrips:   true,
	}
}

// Validate checks the options for values the stripifier cannot work with.
func (o Options) Validate() error {
	if o.CacheSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, o.CacheSize)
	}
	if o.MinStripLength < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinStripLength, o.MinStripLength)
	}
	if o.Restart && o.RestartIndex < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRestartIndex, o.RestartIndex)
	}
	return nil
}

// Stripper generates primitive groups from triangle lists.
type Stripper struct {
	opts Options
	log  *zap.Logger
}

// New creates a Stripper. A nil logger disables logging.
func New(opts Options, log *zap.Logger) (*Stripper, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Stripper{opts: opts, log: log}, nil
}

// Options returns the stripper configuration.
func (s *Stripper) Options() Options {
	return s.opts
}

// checkIndices validates an input triangle list and returns its largest index.
func (s *Stripper) checkIndices(indices []int) (int, error) {
	if len(indices)%3 != 0 {
		return 0, fmt.Errorf("%w: %d indices", ErrIndexCount, len(indices))
	}
	maxIndex := -1
	for i, v := range indices {
		if v < 0 {
			return 0, fmt.Errorf("%w: %d at position %d", ErrNegativeIndex, v, i)
		}
		if v > MaxVertexIndex {
			return 0, fmt.Errorf("%w: %d at position %d", ErrIndexRange, v, i)
		}
		if s.opts.Restart && v == s.opts.RestartIndex {
			return 0, fmt.Errorf("%w: %d is used as a vertex", ErrInvalidRestartIndex, v)
		}
		maxIndex = max(maxIndex, v)
	}
	return maxIndex, nil
}

func (s *Stripper) run(indices []int) (*graph, []*strip, []int, error) {
	maxIndex, err := s.checkIndices(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	st := newStripifier(s.opts.CacheSize, s.opts.MinStripLength, s.log)
	strips, list := st.stripify(indices, maxIndex)
	return st.g, strips, list, nil
}

// GenerateStrips stripifies an indexed triangle list. Strip groups come first,
// followed by at most one triangle list group with the leftover faces. When
// validate is set every output triangle is checked against the input.
//
// Every distinct non-degenerate triangle is emitted, but winding is only
// guaranteed for consistently wound, manifold input. A third triangle on an
// edge can be reached across that edge and come out mirrored.
func (s *Stripper) GenerateStrips(indices []int, validate bool) (groups []PrimitiveGroup, err error) {
	defer recoverInvariant(&err)

	g, strips, list, err := s.run(indices)
	if err != nil {
		return nil, err
	}

	if s.opts.ListsOnly {
		tris := make([]int, 0, 3*g.numReal)
		for _, st := range strips {
			tris = g.appendFaces(tris, st.faces)
		}
		tris = g.appendFaces(tris, list)
		groups = []PrimitiveGroup{{Mode: Triangles, Indices: tris}}
	} else {
		if len(strips) > 0 {
			stream, _ := g.createStrips(strips, s.opts.StitchStrips, s.opts.Restart, s.opts.RestartIndex)
			groups = s.splitStream(stream)
		}
		if len(list) > 0 {
			if tris := g.appendFaces(nil, list); len(tris) > 0 {
				groups = append(groups, PrimitiveGroup{Mode: Triangles, Indices: tris})
			}
		}
	}

	if validate {
		if err := Validate(indices, groups); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// StripIndices returns the serialized strip stream and the leftover triangle
// list. Unstitched strips are separated by StripSeparator, restart strips by
// the restart index.
func (s *Stripper) StripIndices(indices []int) (stream, list []int, numStrips int, err error) {
	defer recoverInvariant(&err)

	g, strips, faces, err := s.run(indices)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(strips) > 0 {
		stream, numStrips = g.createStrips(strips, s.opts.StitchStrips, s.opts.Restart, s.opts.RestartIndex)
	}
	return stream, g.appendFaces(nil, faces), numStrips, nil
}

// splitStream turns a serialized stream into primitive groups.
func (s *Stripper) splitStream(stream []int) []PrimitiveGroup {
	if s.opts.Restart {
		return []PrimitiveGroup{{
			Mode:         TriangleStrip,
			Indices:      stream,
			Restart:      true,
			RestartIndex: s.opts.RestartIndex,
		}}
	}
	if s.opts.StitchStrips {
		return []PrimitiveGroup{{Mode: TriangleStrip, Indices: stream}}
	}

	var groups []PrimitiveGroup
	start := 0
	for i := 0; i <= len(stream); i++ {
		if i < len(stream) && stream[i] != StripSeparator {
			continue
		}
		groups = append(groups, PrimitiveGroup{
			Mode:    TriangleStrip,
			Indices: append([]int(nil), stream[start:i]...),
		})
		start = i + 1
	}
	return groups
}

// appendFaces appends the non-degenerate faces as a triangle list.
func (g *graph) appendFaces(dst []int, faces []int) []int {
	for _, f := range faces {
		fc := &g.faces[f]
		if fc.isDegenerate() {
			continue
		}
		dst = append(dst, fc.v[0], fc.v[1], fc.v[2])
	}
	return dst
}

// createStrips serializes strips into one index stream. It returns the
// stream and the number of separate strips it holds.
func (g *graph) createStrips(strips []*strip, stitch, restart bool, restartIndex int) ([]int, int) {
	var stream []int
	var last [3]int

	for i, st := range strips {
		first := g.firstFaceOrder(st)
		firstFace := g.faces[st.faces[0]].v

		if i == 0 || !stitch || restart {
			if !isCW(firstFace, first[0], first[1]) {
				stream = append(stream, first[0])
			}
		} else {
			// double tap the first vertex of the new strip
			stream = append(stream, first[0])
			if nextIsCW(len(stream)) != isCW(firstFace, first[0], first[1]) {
				stream = append(stream, first[0])
			}
		}
		stream = append(stream, first[0], first[1], first[2])
		last = first

		for _, f := range st.faces[1:] {
			fv := g.faces[f].v
			if u := uniqueVertexInB(last, fv); u != -1 {
				stream = append(stream, u)
				last = [3]int{last[1], last[2], u}
				continue
			}
			// swap face
			stream = append(stream, fv[2])
			last = fv
		}

		if i == len(strips)-1 {
			break
		}
		switch {
		case restart:
			stream = append(stream, restartIndex)
		case stitch:
			stream = append(stream, last[2])
		default:
			stream = append(stream, StripSeparator)
		}
	}

	if stitch || restart {
		return stream, 1
	}
	return stream, len(strips)
}
