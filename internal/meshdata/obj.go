package meshdata

import (
	"fmt"

	"github.com/Faultbox/midgard-strip/pkg/formats"
)

// FromOBJ builds one mesh per OBJ object. Corners sharing the same position,
// texture coordinate and normal indices share a vertex. Normals are taken
// from the file when every corner has one and smoothed otherwise.
func FromOBJ(name string, obj *formats.OBJ) []*Mesh {
	meshes := make([]*Mesh, 0, len(obj.Objects))
	for i, ob := range obj.Objects {
		if len(ob.Triangles) == 0 {
			continue
		}
		m := buildOBJBatch(obj, ob)
		m.Name = fmt.Sprintf("%s/%s", name, ob.Name)
		if ob.Name == "" {
			m.Name = fmt.Sprintf("%s/%d", name, i)
		}
		meshes = append(meshes, m)
	}
	return meshes
}

func buildOBJBatch(obj *formats.OBJ, ob formats.OBJObject) *Mesh {
	var (
		vertices []Vertex
		indices  []int
	)
	lookup := make(map[formats.OBJCorner]int)
	bounds := emptyBounds()
	hasNormals := true

	for _, tri := range ob.Triangles {
		for _, c := range tri {
			idx, ok := lookup[c]
			if !ok {
				v := Vertex{
					Position: obj.Positions[c.V],
					Color:    [4]uint8{255, 255, 255, 255},
				}
				if c.VT >= 0 {
					v.TexCoord = obj.TexCoords[c.VT]
				}
				if c.VN >= 0 {
					v.Normal = obj.Normals[c.VN]
				} else {
					hasNormals = false
				}
				updateBounds(&bounds, v.Position)
				idx = len(vertices)
				lookup[c] = idx
				vertices = append(vertices, v)
			}
			indices = append(indices, idx)
		}
	}

	if !hasNormals {
		smoothNormals(vertices, indices)
	}

	return &Mesh{
		Texture:  -1,
		Vertices: vertices,
		Bounds:   bounds,
		indices:  indices,
	}
}
