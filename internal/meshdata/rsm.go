package meshdata

import (
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-strip/pkg/formats"
)

// RSMOptions controls how RSM faces become triangles.
type RSMOptions struct {
	// TwoSided adds a reversed back face for faces flagged two-sided.
	TwoSided bool
}

// cornerKey identifies a shared vertex within one node and texture batch.
type cornerKey struct {
	vertex, texCoord uint16
	back             bool
}

// FromRSM builds one mesh per node and texture. Nodes without faces yield
// nothing.
func FromRSM(name string, rsm *formats.RSM, opts RSMOptions) ([]*Mesh, error) {
	var meshes []*Mesh
	for i := range rsm.Nodes {
		nodeMeshes, err := FromRSMNode(name, &rsm.Nodes[i], opts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, nodeMeshes...)
	}
	return meshes, nil
}

// FromRSMNode builds the meshes of a single node, ordered by texture.
func FromRSMNode(name string, node *formats.RSMNode, opts RSMOptions) ([]*Mesh, error) {
	if _, err := node.TriangleIndices(); err != nil {
		return nil, err
	}

	byTexture := make(map[int][]formats.RSMFace)
	for _, face := range node.Faces {
		tex := 0
		if int(face.TextureID) < len(node.TextureIDs) {
			tex = int(node.TextureIDs[face.TextureID])
		}
		byTexture[tex] = append(byTexture[tex], face)
	}

	textures := make([]int, 0, len(byTexture))
	for tex := range byTexture {
		textures = append(textures, tex)
	}
	slices.Sort(textures)

	meshes := make([]*Mesh, 0, len(textures))
	for _, tex := range textures {
		m := buildRSMBatch(node, byTexture[tex], opts)
		m.Name = fmt.Sprintf("%s/%s#%d", name, node.Name, tex)
		m.Texture = tex
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func buildRSMBatch(node *formats.RSMNode, faces []formats.RSMFace, opts RSMOptions) *Mesh {
	var (
		vertices []Vertex
		indices  []int
	)
	lookup := make(map[cornerKey]int)
	bounds := emptyBounds()

	corner := func(face formats.RSMFace, j int, back bool) int {
		key := cornerKey{vertex: face.VertexIDs[j], texCoord: face.TexCoordIDs[j], back: back}
		if idx, ok := lookup[key]; ok {
			return idx
		}
		v := Vertex{
			Position: node.Vertices[key.vertex],
			Color:    [4]uint8{255, 255, 255, 255},
		}
		if int(key.texCoord) < len(node.TexCoords) {
			tc := node.TexCoords[key.texCoord]
			v.TexCoord = [2]float32{tc.U, tc.V}
			v.Color = tc.Color
		}
		updateBounds(&bounds, v.Position)
		lookup[key] = len(vertices)
		vertices = append(vertices, v)
		return lookup[key]
	}

	for _, face := range faces {
		indices = append(indices, corner(face, 0, false), corner(face, 1, false), corner(face, 2, false))
		if opts.TwoSided && face.TwoSide != 0 {
			indices = append(indices, corner(face, 2, true), corner(face, 1, true), corner(face, 0, true))
		}
	}

	smoothNormals(vertices, indices)

	return &Mesh{
		Vertices: vertices,
		Bounds:   bounds,
		indices:  indices,
	}
}
