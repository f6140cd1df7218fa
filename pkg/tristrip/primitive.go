package tristrip

import "fmt"

// IndexMode is the primitive topology of an index buffer.
type IndexMode int

const (
	Triangles IndexMode = iota
	TriangleStrip
)

// String returns the mode name.
func (m IndexMode) String() string {
	switch m {
	case Triangles:
		return "Triangles"
	case TriangleStrip:
		return "TriangleStrip"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// PrimitiveGroup is one draw call worth of indices.
type PrimitiveGroup struct {
	Mode    IndexMode
	Indices []int

	// Restart is set when strip boundaries inside Indices are marked with
	// RestartIndex.
	Restart      bool
	RestartIndex int
}

// Count returns the number of indices in the group.
func (p PrimitiveGroup) Count() int {
	return len(p.Indices)
}

func (p PrimitiveGroup) isRestart(v int) bool {
	return p.Restart && v == p.RestartIndex
}

// Triangles expands the group into its visible triangles, in winding order.
// Degenerate triangles are dropped.
func (p PrimitiveGroup) Triangles() [][3]int {
	var tris [][3]int
	switch p.Mode {
	case Triangles:
		for i := 0; i+2 < len(p.Indices); i += 3 {
			v0, v1, v2 := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
			if !isDegenerate(v0, v1, v2) {
				tris = append(tris, [3]int{v0, v1, v2})
			}
		}
	case TriangleStrip:
		start := 0
		for i := 0; i <= len(p.Indices); i++ {
			if i < len(p.Indices) && !p.isRestart(p.Indices[i]) {
				continue
			}
			tris = appendStripTriangles(tris, p.Indices[start:i])
			start = i + 1
		}
	}
	return tris
}

func appendStripTriangles(tris [][3]int, strip []int) [][3]int {
	flip := false
	for j := 2; j < len(strip); j++ {
		v0, v1, v2 := strip[j-2], strip[j-1], strip[j]
		if flip {
			v1, v2 = v2, v1
		}
		flip = !flip
		if isDegenerate(v0, v1, v2) {
			continue
		}
		tris = append(tris, [3]int{v0, v1, v2})
	}
	return tris
}

// Uint32 returns the indices as uint32 for upload. A restart marker becomes
// 0xFFFFFFFF.
func (p PrimitiveGroup) Uint32() []uint32 {
	out := make([]uint32, len(p.Indices))
	for i, v := range p.Indices {
		if p.isRestart(v) {
			out[i] = 0xFFFFFFFF
			continue
		}
		out[i] = uint32(v)
	}
	return out
}

// Uint16 returns the indices as uint16. It fails if a vertex index does not
// fit below the 0xFFFF restart value.
func (p PrimitiveGroup) Uint16() ([]uint16, error) {
	out := make([]uint16, len(p.Indices))
	for i, v := range p.Indices {
		if p.isRestart(v) {
			out[i] = 0xFFFF
			continue
		}
		if v >= 0xFFFF {
			return nil, fmt.Errorf("index %d at position %d does not fit in 16 bits", v, i)
		}
		out[i] = uint16(v)
	}
	return out, nil
}

// maxVertex returns the largest vertex index in the group, or -1.
func (p PrimitiveGroup) maxVertex() int {
	m := -1
	for _, v := range p.Indices {
		if !p.isRestart(v) && v > m {
			m = v
		}
	}
	return m
}
