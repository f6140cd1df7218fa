package tristrip

import (
	"fmt"

	"go.uber.org/zap"
)

// Mesh is the view of a mesh that Visit needs.
type Mesh interface {
	// Indices returns the triangle list, or nil for sequential vertices.
	Indices() []int
	VertexCount() int
	IndexModes() []IndexMode
	// SetPrimitives replaces the index data with the generated groups.
	SetPrimitives(groups []PrimitiveGroup)
	// ReorderVertices moves vertex old to position remap[old]. Entries of
	// -1 mark vertices that are no longer referenced. New positions may
	// skip a slot reserved for the restart index.
	ReorderVertices(remap []int)
}

// Visit stripifies m in place. Meshes that are already stripped are left
// alone and reported with ErrAlreadyStripped. Winding is preserved only for
// consistently wound, manifold meshes.
func (s *Stripper) Visit(m Mesh) error {
	for _, mode := range m.IndexModes() {
		if mode != Triangles {
			return fmt.Errorf("%w: found %s", ErrAlreadyStripped, mode)
		}
	}

	indices := m.Indices()
	if indices == nil {
		n := m.VertexCount()
		indices = make([]int, n)
		for i := range indices {
			indices[i] = i
		}
	}

	groups, err := s.GenerateStrips(indices, s.opts.ValidateOutput)
	if err != nil {
		return err
	}

	if s.opts.ReorderVertices {
		var remap []int
		groups, remap = RemapIndices(groups, m.VertexCount())
		if s.opts.ValidateOutput {
			moved := make([]int, len(indices))
			for i, v := range indices {
				moved[i] = v
				if v < len(remap) {
					moved[i] = remap[v]
				}
			}
			if err := Validate(moved, groups); err != nil {
				return fmt.Errorf("after vertex reorder: %w", err)
			}
		}
		m.ReorderVertices(remap)
	}
	m.SetPrimitives(groups)

	s.log.Debug("mesh stripped",
		zap.Int("input_indices", len(indices)),
		zap.Int("groups", len(groups)))
	return nil
}
