package tristrip

import (
	"math/rand/v2"
	"slices"
)

// gridMesh returns a w x h grid of quads, two counter-clockwise triangles each.
func gridMesh(w, h int) []int {
	var idx []int
	stride := w + 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := y*stride + x
			b := a + 1
			c := a + stride
			d := c + 1
			idx = append(idx, a, b, d, a, d, c)
		}
	}
	return idx
}

// cubeMesh returns a closed, consistently wound cube.
func cubeMesh() []int {
	return []int{
		0, 2, 1, 0, 3, 2, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // front
		1, 2, 6, 1, 6, 5, // right
		2, 3, 7, 2, 7, 6, // back
		3, 0, 4, 3, 4, 7, // left
	}
}

// holeyGrid drops a deterministic random subset of a grid's triangles.
func holeyGrid(w, h int, keep float64, seed uint64) []int {
	src := gridMesh(w, h)
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var idx []int
	for i := 0; i < len(src); i += 3 {
		if r.Float64() < keep {
			idx = append(idx, src[i:i+3]...)
		}
	}
	return idx
}

// canonical rotates t so its smallest index comes first.
func canonical(t [3]int) [3]int {
	switch {
	case t[1] < t[0] && t[1] < t[2]:
		return [3]int{t[1], t[2], t[0]}
	case t[2] < t[0] && t[2] < t[1]:
		return [3]int{t[2], t[0], t[1]}
	}
	return t
}

func compareTri(a, b [3]int) int {
	for i := range a {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return 0
}

func inputTriangles(indices []int) [][3]int {
	var tris [][3]int
	for i := 0; i+2 < len(indices); i += 3 {
		t := [3]int{indices[i], indices[i+1], indices[i+2]}
		if !isDegenerate(t[0], t[1], t[2]) {
			tris = append(tris, canonical(t))
		}
	}
	slices.SortFunc(tris, compareTri)
	return tris
}

func outputTriangles(groups []PrimitiveGroup) [][3]int {
	var tris [][3]int
	for _, g := range groups {
		for _, t := range g.Triangles() {
			tris = append(tris, canonical(t))
		}
	}
	slices.SortFunc(tris, compareTri)
	return tris
}

func referencedVertices(indices []int) map[int]bool {
	used := make(map[int]bool)
	for _, v := range indices {
		used[v] = true
	}
	return used
}
