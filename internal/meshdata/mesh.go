package meshdata

import (
	"fmt"

	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

// New creates a mesh from a vertex buffer and a triangle list. Bounds are
// computed from the vertices.
func New(name string, vertices []Vertex, indices []int) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %s: %d indices is not a triangle list", name, len(indices))
	}
	for i, v := range indices {
		if v < 0 || v >= len(vertices) {
			return nil, fmt.Errorf("mesh %s: index %d at %d out of range (%d vertices)", name, v, i, len(vertices))
		}
	}

	m := &Mesh{Name: name, Texture: -1, Vertices: vertices, indices: indices}
	m.Bounds = emptyBounds()
	for _, v := range vertices {
		updateBounds(&m.Bounds, v.Position)
	}
	return m, nil
}

// Indices returns the triangle list, or nil when the mesh holds strips.
func (m *Mesh) Indices() []int {
	return m.indices
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexModes returns the modes of the primitive groups, or Triangles for an
// unprocessed mesh.
func (m *Mesh) IndexModes() []tristrip.IndexMode {
	if m.Primitives == nil {
		return []tristrip.IndexMode{tristrip.Triangles}
	}
	modes := make([]tristrip.IndexMode, len(m.Primitives))
	for i, p := range m.Primitives {
		modes[i] = p.Mode
	}
	return modes
}

// SetPrimitives replaces the index data with groups. A result made only of
// triangle lists stays visible through Indices.
func (m *Mesh) SetPrimitives(groups []tristrip.PrimitiveGroup) {
	m.Primitives = groups

	var list []int
	for _, g := range groups {
		if g.Mode != tristrip.Triangles {
			m.indices = nil
			return
		}
		list = append(list, g.Indices...)
	}
	m.indices = list
}

// ReorderVertices moves vertex old to remap[old] and drops vertices mapped to -1.
// Slots no vertex moves to are left zero.
func (m *Mesh) ReorderVertices(remap []int) {
	n := 0
	for _, r := range remap {
		n = max(n, r+1)
	}

	out := make([]Vertex, n)
	for old, r := range remap {
		if r >= 0 && old < len(m.Vertices) {
			out[r] = m.Vertices[old]
		}
	}
	m.Vertices = out

	if m.indices != nil {
		for i, v := range m.indices {
			m.indices[i] = remap[v]
		}
	}
}

// TriangleCount returns the number of visible triangles.
func (m *Mesh) TriangleCount() int {
	if m.Primitives == nil {
		return len(m.indices) / 3
	}
	n := 0
	for _, p := range m.Primitives {
		n += len(p.Triangles())
	}
	return n
}

// Triangles returns the visible triangles in winding order.
func (m *Mesh) Triangles() [][3]int {
	if m.Primitives == nil {
		return tristrip.PrimitiveGroup{Mode: tristrip.Triangles, Indices: m.indices}.Triangles()
	}
	var tris [][3]int
	for _, p := range m.Primitives {
		tris = append(tris, p.Triangles()...)
	}
	return tris
}

// smoothNormals sets each vertex normal to the normalized sum of the
// unnormalized normals of the faces using it.
func smoothNormals(vertices []Vertex, indices []int) {
	sums := make([][3]float32, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := cross(sub(vertices[b].Position, vertices[a].Position), sub(vertices[c].Position, vertices[a].Position))
		for _, v := range [3]int{a, b, c} {
			sums[v][0] += n[0]
			sums[v][1] += n[1]
			sums[v][2] += n[2]
		}
	}
	for i := range vertices {
		vertices[i].Normal = normalize(sums[i])
	}
}
