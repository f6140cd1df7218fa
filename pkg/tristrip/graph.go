package tristrip

import "go.uber.org/zap"

const (
	noFace       = -1
	noEdge       = -1
	noStrip      = -1
	noExperiment = -1
)

type faceKind uint8

const (
	faceReal faceKind = iota
	// faceDegenerateSwap is a synthetic (a, b, a) triangle that flips strip
	// parity without adding visible geometry.
	faceDegenerateSwap
)

// trialMark records which experiment and strip claimed a face while the
// experiment is still undecided.
type trialMark struct {
	experiment int
	strip      int
}

type face struct {
	v         [3]int
	kind      faceKind
	committed int // noStrip until committed, never changed afterwards
	trial     trialMark
	hasTrial  bool
}

func (f *face) isDegenerate() bool {
	return isDegenerate(f.v[0], f.v[1], f.v[2])
}

// edge is an undirected vertex pair shared by up to two faces. next[k] links
// the edge into the bucket of vertex v[k].
type edge struct {
	v     [2]int
	faces [2]int
	next  [2]int
}

// graph is the face/edge arena for one stripify pass. Real faces occupy
// faces[:numReal]; swap faces created while growing strips are appended
// after them.
type graph struct {
	faces   []face
	numReal int
	edges   []edge
	heads   []int
	degree  []int

	nonManifold int
	duplicates  int
	degenerates int

	log *zap.Logger
}

func isDegenerate(v0, v1, v2 int) bool {
	return v0 == v1 || v0 == v2 || v1 == v2
}

func newGraph(maxIndex int, log *zap.Logger) *graph {
	g := &graph{
		heads:  make([]int, maxIndex+1),
		degree: make([]int, maxIndex+1),
		log:    log,
	}
	for i := range g.heads {
		g.heads[i] = noEdge
	}
	return g
}

// buildGraph creates faces and edges for an indexed triangle list.
// Degenerate triangles are skipped and exact duplicate faces are kept once.
func buildGraph(indices []int, maxIndex int, log *zap.Logger) *graph {
	g := newGraph(maxIndex, log)
	g.faces = make([]face, 0, len(indices)/3)
	g.edges = make([]edge, 0, len(indices)/2)
	seen := make(map[[3]int]struct{}, len(indices)/3)

	for i := 0; i+2 < len(indices); i += 3 {
		v0, v1, v2 := indices[i], indices[i+1], indices[i+2]
		if isDegenerate(v0, v1, v2) {
			g.degenerates++
			continue
		}

		fi := len(g.faces)
		mightExist := true
		updated := [3]int{noEdge, noEdge, noEdge}
		pairs := [3][2]int{{v0, v1}, {v1, v2}, {v2, v0}}

		for k, p := range pairs {
			e := g.findEdge(p[0], p[1])
			switch {
			case e == noEdge:
				// a new edge means this face cannot be a duplicate
				mightExist = false
				g.addEdge(p[0], p[1], fi)
			case g.edges[e].faces[1] != noFace:
				g.nonManifold++
				g.log.Debug("more than two triangles on an edge",
					zap.Int("v0", p[0]), zap.Int("v1", p[1]), zap.Int("triangle", i/3))
			default:
				g.edges[e].faces[1] = fi
				updated[k] = e
			}
		}

		key := [3]int{v0, v1, v2}
		if mightExist {
			if _, dup := seen[key]; dup {
				g.duplicates++
				for _, e := range updated {
					if e != noEdge {
						g.edges[e].faces[1] = noFace
					}
				}
				continue
			}
		}
		seen[key] = struct{}{}
		g.faces = append(g.faces, face{v: key, committed: noStrip})
	}

	g.numReal = len(g.faces)
	if g.nonManifold > 0 {
		g.log.Warn("non-manifold edges found, extra triangles left unlinked",
			zap.Int("count", g.nonManifold))
	}
	return g
}

func (g *graph) addEdge(v0, v1, f int) int {
	e := len(g.edges)
	g.edges = append(g.edges, edge{
		v:     [2]int{v0, v1},
		faces: [2]int{f, noFace},
		next:  [2]int{g.heads[v0], g.heads[v1]},
	})
	g.heads[v0] = e
	g.heads[v1] = e
	g.degree[v0]++
	g.degree[v1]++
	return e
}

// nextInBucket follows the bucket list of vertex v past edge e.
func (g *graph) nextInBucket(e, v int) int {
	if g.edges[e].v[0] == v {
		return g.edges[e].next[0]
	}
	return g.edges[e].next[1]
}

// findEdge walks the bucket of whichever endpoint has the lower degree.
func (g *graph) findEdge(v0, v1 int) int {
	if v0 < 0 || v1 < 0 || v0 >= len(g.heads) || v1 >= len(g.heads) {
		return noEdge
	}
	v, other := v0, v1
	if g.degree[v1] < g.degree[v0] {
		v, other = v1, v0
	}
	for e := g.heads[v]; e != noEdge; e = g.nextInBucket(e, v) {
		ed := &g.edges[e]
		if (ed.v[0] == v && ed.v[1] == other) || (ed.v[1] == v && ed.v[0] == other) {
			return e
		}
	}
	return noEdge
}

// otherFace returns the face across edge (v0, v1) from f, or noFace.
func (g *graph) otherFace(v0, v1, f int) int {
	if v0 == v1 {
		return noFace
	}
	e := g.findEdge(v0, v1)
	if e == noEdge {
		invariant("no edge between %d and %d", v0, v1)
	}
	if g.edges[e].faces[0] == f {
		return g.edges[e].faces[1]
	}
	return g.edges[e].faces[0]
}

// nextIndex returns the vertex of f that continues a strip ending in the
// last two entries of indices.
func (g *graph) nextIndex(indices []int, f int) int {
	n := len(indices)
	v0, v1 := indices[n-2], indices[n-1]
	fv := g.faces[f].v

	for k, x := range fv {
		if x == v0 || x == v1 {
			continue
		}
		for m, y := range fv {
			if m != k && y != v0 && y != v1 {
				invariant("face %d %v does not contain strip edge (%d, %d)", f, fv, v0, v1)
			}
		}
		return x
	}

	// degenerate face: return the repeated vertex
	switch {
	case fv[0] == fv[1] || fv[0] == fv[2]:
		return fv[0]
	case fv[1] == fv[2]:
		return fv[1]
	}
	invariant("face %d %v has no next index after (%d, %d)", f, fv, v0, v1)
	return -1
}

// boundaryCount counts the edges of f that have no neighbouring face.
func (g *graph) boundaryCount(f int) int {
	return 3 - g.numNeighbors(f)
}

func (g *graph) numNeighbors(f int) int {
	fv := g.faces[f].v
	n := 0
	if g.otherFace(fv[0], fv[1], f) != noFace {
		n++
	}
	if g.otherFace(fv[1], fv[2], f) != noFace {
		n++
	}
	if g.otherFace(fv[2], fv[0], f) != noFace {
		n++
	}
	return n
}

func (g *graph) addSwapFace(v0, v1 int) int {
	f := len(g.faces)
	g.faces = append(g.faces, face{
		v:         [3]int{v0, v1, v0},
		kind:      faceDegenerateSwap,
		committed: noStrip,
	})
	return f
}

// uniqueVertexInB returns the first vertex of b that is not in a, or -1.
func uniqueVertexInB(a, b [3]int) int {
	for _, v := range b {
		if v != a[0] && v != a[1] && v != a[2] {
			return v
		}
	}
	return -1
}

// sharedVertices returns up to two vertices of b that also occur in a, in
// b's order. Missing slots are -1.
func sharedVertices(a, b [3]int) (int, int) {
	s0, s1 := -1, -1
	for _, v := range b {
		if v != a[0] && v != a[1] && v != a[2] {
			continue
		}
		if s0 == -1 {
			s0 = v
		} else {
			s1 = v
			break
		}
	}
	return s0, s1
}

// isCW reports whether v0 is followed by v1 in the winding of f.
func isCW(f [3]int, v0, v1 int) bool {
	switch v0 {
	case f[0]:
		return f[1] == v1
	case f[1]:
		return f[2] == v1
	default:
		return f[0] == v1
	}
}

func nextIsCW(numIndices int) bool {
	return numIndices%2 == 0
}
