// Package meshdata holds indexed meshes built from RSM and OBJ sources and
// adapts them to the stripifier.
package meshdata

import "github.com/Faultbox/midgard-strip/pkg/tristrip"

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]uint8
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// Mesh is one draw batch: a vertex buffer, its triangle list and, once
// stripped, the generated primitive groups. RSM nodes yield one Mesh per
// texture and OBJ files one per object.
type Mesh struct {
	Name    string
	Texture int // index into the source texture table, -1 for none

	Vertices   []Vertex
	Primitives []tristrip.PrimitiveGroup
	Bounds     Bounds

	// indices is the triangle list. It is nil once the mesh holds strips.
	indices []int
}

var _ tristrip.Mesh = (*Mesh)(nil)
