package tristrip

// stripStart is the seed of a strip: a face, one of its edges and the
// direction the edge is walked in.
type stripStart struct {
	face int
	edge int
	toV1 bool
}

// strip is an ordered run of faces. Faces are referenced by arena index.
type strip struct {
	start          stripStart
	id             int
	experiment     int
	faces          []int
	numDegenerates int
	visited        bool
}

func newStrip(start stripStart, id, experiment int) *strip {
	return &strip{start: start, id: id, experiment: experiment}
}

func (s *strip) isExperiment() bool {
	return s.experiment >= 0
}

func (g *graph) isInStrip(s *strip, f int) bool {
	if f == noFace {
		return false
	}
	fc := &g.faces[f]
	if s.isExperiment() {
		return fc.hasTrial && fc.trial.strip == s.id
	}
	return fc.committed == s.id
}

// isMarked reports whether f is taken, either for good or by the experiment
// s belongs to.
func (g *graph) isMarked(s *strip, f int) bool {
	fc := &g.faces[f]
	if fc.committed != noStrip {
		return true
	}
	return s.isExperiment() && fc.hasTrial && fc.trial.experiment == s.experiment
}

func (g *graph) mark(s *strip, f int) {
	if g.isMarked(s, f) {
		invariant("face %d already marked for strip %d", f, s.id)
	}
	fc := &g.faces[f]
	if s.isExperiment() {
		fc.trial = trialMark{experiment: s.experiment, strip: s.id}
		fc.hasTrial = true
		return
	}
	fc.committed = s.id
	fc.hasTrial = false
}

// unique reports whether f has a vertex that none of faces uses.
func (g *graph) unique(faces []int, f int) bool {
	fv := g.faces[f].v
	var seen [3]bool
	for _, o := range faces {
		ov := g.faces[o].v
		for k, v := range fv {
			if !seen[k] && (ov[0] == v || ov[1] == v || ov[2] == v) {
				seen[k] = true
			}
		}
		if seen[0] && seen[1] && seen[2] {
			return false
		}
	}
	return true
}

// sharesEdge reports whether any neighbour of f across one of its edges is
// already part of s.
func (g *graph) sharesEdge(s *strip, f int) bool {
	fv := g.faces[f].v
	for _, p := range [3][2]int{{fv[0], fv[1]}, {fv[1], fv[2]}, {fv[2], fv[0]}} {
		e := g.findEdge(p[0], p[1])
		if e == noEdge {
			continue
		}
		if g.isInStrip(s, g.edges[e].faces[0]) || g.isInStrip(s, g.edges[e].faces[1]) {
			return true
		}
	}
	return false
}

// step appends next to faces. If the face after next would end the strip but
// swapping the pivot keeps it going, a swap face is inserted first.
func (g *graph) step(s *strip, faces, scratch []int, nv0, nv1, next int) ([]int, []int, int, int) {
	testnv0 := nv1
	testnv1 := g.nextIndex(scratch, next)

	nextNext := g.otherFace(testnv0, testnv1, next)
	if nextNext == noFace || g.isMarked(s, nextNext) {
		alt := g.otherFace(nv0, testnv1, next)
		if alt != noFace && !g.isMarked(s, alt) {
			swap := g.addSwapFace(nv0, nv1)
			faces = append(faces, swap)
			g.mark(s, swap)
			scratch = append(scratch, nv0)
			testnv0 = nv0
			s.numDegenerates++
		}
	}

	faces = append(faces, next)
	g.mark(s, next)
	scratch = append(scratch, testnv1)
	return faces, scratch, testnv0, testnv1
}

// build grows s forward from its start edge, then backward, marking every
// face it takes.
func (g *graph) build(s *strip) {
	start := s.start.face
	forward := []int{start}
	g.mark(s, start)

	ed := g.edges[s.start.edge]
	v0, v1 := ed.v[1], ed.v[0]
	if s.start.toV1 {
		v0, v1 = ed.v[0], ed.v[1]
	}

	scratch := []int{v0, v1}
	v2 := g.nextIndex(scratch, start)
	scratch = append(scratch, v2)

	nv0, nv1 := v1, v2
	next := g.otherFace(nv0, nv1, start)
	for next != noFace && !g.isMarked(s, next) {
		forward, scratch, nv0, nv1 = g.step(s, forward, scratch, nv0, nv1, next)
		next = g.otherFace(nv0, nv1, next)
	}

	// Backward faces may not wrap around onto vertices the strip already
	// covers.
	all := append([]int(nil), forward...)
	var backward []int

	scratch = append(scratch[:0], v2, v1, v0)
	nv0, nv1 = v1, v0
	next = g.otherFace(nv0, nv1, start)
	for next != noFace && !g.isMarked(s, next) {
		if !g.unique(all, next) {
			break
		}
		backward, scratch, nv0, nv1 = g.step(s, backward, scratch, nv0, nv1, next)
		all = append(all, next)
		next = g.otherFace(nv0, nv1, next)
	}

	s.faces = make([]int, 0, len(backward)+len(forward))
	for i := len(backward) - 1; i >= 0; i-- {
		s.faces = append(s.faces, backward[i])
	}
	s.faces = append(s.faces, forward...)
}

// realFaces counts the faces of s that are not degenerate.
func (g *graph) realFaces(s *strip) int {
	n := 0
	for _, f := range s.faces {
		if !g.faces[f].isDegenerate() {
			n++
		}
	}
	return n
}

// firstFaceOrder orders the vertices of the first face of s so the strip
// can continue from its last two vertices.
func (g *graph) firstFaceOrder(s *strip) [3]int {
	first := g.faces[s.faces[0]].v
	if len(s.faces) < 2 {
		return first
	}

	// the vertex not shared with the second face goes first
	u := uniqueVertexInB(g.faces[s.faces[1]].v, first)
	switch u {
	case first[1]:
		first[0], first[1] = first[1], first[0]
	case first[2]:
		first[0], first[2] = first[2], first[0]
	}
	if len(s.faces) < 3 {
		return first
	}

	// the vertex shared with the third face goes last
	if g.faces[s.faces[1]].isDegenerate() {
		pivot := g.faces[s.faces[1]].v[1]
		if first[1] == pivot {
			first[1], first[2] = first[2], first[1]
		}
		return first
	}
	third := g.faces[s.faces[2]].v
	if c := uniqueVertexInB(first, g.faces[s.faces[1]].v); c != -1 && contains(third, c) {
		// the third face hangs off the edge (first[2], c)
		if contains(third, first[1]) && !contains(third, first[2]) {
			first[1], first[2] = first[2], first[1]
		}
		return first
	}
	s0, s1 := sharedVertices(third, first)
	if s0 == first[1] && s1 == -1 {
		first[1], first[2] = first[2], first[1]
	}
	return first
}

func contains(f [3]int, v int) bool {
	return f[0] == v || f[1] == v || f[2] == v
}
