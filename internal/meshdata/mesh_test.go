package meshdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-strip/pkg/formats"
	"github.com/Faultbox/midgard-strip/pkg/tristrip"
)

// gridNode is an n x n quad grid on the XZ plane. Faces in the last column
// use the node's second texture.
func gridNode(n int) *formats.RSMNode {
	node := &formats.RSMNode{Name: "grid", TextureIDs: []int32{3, 7}}
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			node.Vertices = append(node.Vertices, [3]float32{float32(x), 0, float32(z)})
			node.TexCoords = append(node.TexCoords, formats.RSMTexCoord{
				Color: [4]uint8{255, 255, 255, 255},
				U:     float32(x) / float32(n),
				V:     float32(z) / float32(n),
			})
		}
	}
	at := func(x, z int) uint16 { return uint16(z*(n+1) + x) }
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			var tex uint16
			if x == n-1 {
				tex = 1
			}
			a, b, c, d := at(x, z), at(x+1, z), at(x, z+1), at(x+1, z+1)
			node.Faces = append(node.Faces,
				formats.RSMFace{VertexIDs: [3]uint16{a, c, b}, TexCoordIDs: [3]uint16{a, c, b}, TextureID: tex},
				formats.RSMFace{VertexIDs: [3]uint16{b, c, d}, TexCoordIDs: [3]uint16{b, c, d}, TextureID: tex},
			)
		}
	}
	return node
}

func TestFromRSMNode(t *testing.T) {
	node := gridNode(4)

	meshes, err := FromRSMNode("model", node, RSMOptions{})
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	main, side := meshes[0], meshes[1]
	assert.Equal(t, "model/grid#3", main.Name)
	assert.Equal(t, 3, main.Texture)
	assert.Equal(t, "model/grid#7", side.Name)
	assert.Equal(t, 7, side.Texture)

	// 4x3 quads share a 5x4 vertex lattice, the last column is 2x5.
	assert.Equal(t, 24, main.TriangleCount())
	assert.Equal(t, 20, main.VertexCount())
	assert.Equal(t, 8, side.TriangleCount())
	assert.Equal(t, 10, side.VertexCount())

	assert.Equal(t, Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{3, 0, 4}}, main.Bounds)

	// All faces wind the same way, so every normal lies on the Y axis.
	for _, v := range main.Vertices {
		assert.InDelta(t, 1, abs(v.Normal[1]), 1e-5)
	}
}

func TestFromRSMNodeTwoSided(t *testing.T) {
	node := gridNode(2)
	node.TextureIDs = []int32{0}
	for i := range node.Faces {
		node.Faces[i].TextureID = 0
		node.Faces[i].TwoSide = 1
	}

	single, err := FromRSMNode("m", node, RSMOptions{})
	require.NoError(t, err)
	double, err := FromRSMNode("m", node, RSMOptions{TwoSided: true})
	require.NoError(t, err)

	require.Len(t, single, 1)
	require.Len(t, double, 1)
	assert.Equal(t, 2*single[0].TriangleCount(), double[0].TriangleCount())
	assert.Equal(t, 2*single[0].VertexCount(), double[0].VertexCount(), "back faces get their own vertices")

	front := single[0].Vertices[0].Normal
	back := double[0].Vertices[single[0].VertexCount()].Normal
	assert.InDelta(t, -front[1], back[1], 1e-5)
}

func TestFromRSMInvalidFace(t *testing.T) {
	rsm := &formats.RSM{Nodes: []formats.RSMNode{*gridNode(1)}}
	rsm.Nodes[0].Faces[0].VertexIDs[2] = 99

	_, err := FromRSM("broken", rsm, RSMOptions{})
	assert.ErrorIs(t, err, formats.ErrInvalidFaceIndex)
}

func TestFromOBJ(t *testing.T) {
	src := `o box
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 1
f 1 2 3 4
f 1/1 3/2 4
g
f 1 2 3
`
	obj, err := formats.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	meshes := FromOBJ("scene", obj)
	require.Len(t, meshes, 2)

	box := meshes[0]
	assert.Equal(t, "scene/box", box.Name)
	assert.Equal(t, -1, box.Texture)
	assert.Equal(t, 3, box.TriangleCount())
	// 4 position-only corners plus 1/1 and 3/2
	assert.Equal(t, 6, box.VertexCount())
	assert.Equal(t, [2]float32{1, 1}, box.Vertices[5].TexCoord)

	assert.Equal(t, "scene/1", meshes[1].Name)
	assert.Equal(t, [3]float32{0, 0, 1}, meshes[1].Vertices[0].Normal)
}

func TestNewValidatesIndices(t *testing.T) {
	verts := make([]Vertex, 3)

	_, err := New("ok", verts, []int{0, 1, 2})
	assert.NoError(t, err)

	_, err = New("short", verts, []int{0, 1})
	assert.Error(t, err)

	_, err = New("range", verts, []int{0, 1, 3})
	assert.Error(t, err)
}

func TestVisitStripsMesh(t *testing.T) {
	meshes, err := FromRSMNode("model", gridNode(6), RSMOptions{})
	require.NoError(t, err)
	m := meshes[0]

	before := positions(m, m.Triangles())

	opts := tristrip.DefaultOptions()
	opts.ReorderVertices = true
	s, err := tristrip.New(opts, nil)
	require.NoError(t, err)
	require.NoError(t, s.Visit(m))

	require.NotEmpty(t, m.Primitives)
	assert.Equal(t, tristrip.TriangleStrip, m.Primitives[0].Mode)
	assert.Nil(t, m.Indices())
	assert.ElementsMatch(t, before, positions(m, m.Triangles()))

	// first-use order
	assert.Equal(t, 0, m.Primitives[0].Indices[0])

	err = s.Visit(m)
	assert.ErrorIs(t, err, tristrip.ErrAlreadyStripped)
}

func TestVisitListsOnly(t *testing.T) {
	meshes, err := FromRSMNode("model", gridNode(3), RSMOptions{})
	require.NoError(t, err)
	m := meshes[0]
	n := m.TriangleCount()

	opts := tristrip.DefaultOptions()
	opts.ListsOnly = true
	s, err := tristrip.New(opts, nil)
	require.NoError(t, err)
	require.NoError(t, s.Visit(m))

	assert.Equal(t, []tristrip.IndexMode{tristrip.Triangles}, m.IndexModes())
	assert.Len(t, m.Indices(), 3*n)
}

// positions resolves triangles to vertex positions, rotated so the smallest
// position leads, which makes them comparable across vertex orders.
func positions(m *Mesh, tris [][3]int) [][3][3]float32 {
	out := make([][3][3]float32, len(tris))
	for i, t := range tris {
		p := [3][3]float32{m.Vertices[t[0]].Position, m.Vertices[t[1]].Position, m.Vertices[t[2]].Position}
		for less(p[1], p[0]) || less(p[2], p[0]) {
			p = [3][3]float32{p[1], p[2], p[0]}
		}
		out[i] = p
	}
	return out
}

func less(a, b [3]float32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestReorderVerticesLeavesGap(t *testing.T) {
	verts := []Vertex{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{2, 0, 0}},
		{Position: [3]float32{3, 0, 0}},
	}
	m, err := New("gap", verts, []int{0, 1, 2})
	require.NoError(t, err)

	// slot 2 is held back for a restart index
	m.ReorderVertices([]int{3, 0, 1})

	require.Equal(t, 4, m.VertexCount())
	assert.Equal(t, [3]float32{2, 0, 0}, m.Vertices[0].Position)
	assert.Equal(t, [3]float32{3, 0, 0}, m.Vertices[1].Position)
	assert.Equal(t, Vertex{}, m.Vertices[2])
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[3].Position)
	assert.Equal(t, []int{3, 0, 1}, m.Indices())
}
