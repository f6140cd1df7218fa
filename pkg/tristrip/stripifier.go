package tristrip

import "go.uber.org/zap"

const (
	// cacheInefficiency is subtracted from the configured cache size; real
	// hardware caches rarely behave as a perfect FIFO.
	cacheInefficiency = 6

	// numSamples is the number of reset points tried per experiment round.
	numSamples = 10
)

type stripifier struct {
	g              *graph
	cacheSize      int
	minStripLength int

	meshJump       float32
	firstResetPass bool

	log *zap.Logger
}

func newStripifier(cacheSize, minStripLength int, log *zap.Logger) *stripifier {
	return &stripifier{
		cacheSize:      max(1, cacheSize-cacheInefficiency),
		minStripLength: minStripLength,
		firstResetPass: true,
		log:            log,
	}
}

// stripify builds the graph for indices and returns cache sized strips plus
// the faces that were left for a plain triangle list.
func (s *stripifier) stripify(indices []int, maxIndex int) ([]*strip, []int) {
	s.meshJump = 0
	s.firstResetPass = true
	s.g = buildGraph(indices, maxIndex, s.log)

	all := s.findAllStrips()
	strips, list := s.splitUpStripsAndOptimize(all)

	s.log.Debug("stripify finished",
		zap.Int("faces", s.g.numReal),
		zap.Int("committed_strips", len(all)),
		zap.Int("strips", len(strips)),
		zap.Int("list_faces", len(list)),
		zap.Int("duplicates", s.g.duplicates),
		zap.Int("degenerates", s.g.degenerates))
	return strips, list
}

// findStartPoint returns the face with the most boundary edges, or -1 when
// the mesh is closed.
func (s *stripifier) findStartPoint() int {
	bestCtr, bestIndex := -1, -1
	for i := 0; i < s.g.numReal; i++ {
		if ctr := s.g.boundaryCount(i); ctr > bestCtr {
			bestCtr = ctr
			bestIndex = i
		}
	}
	if bestCtr == 0 {
		return -1
	}
	return bestIndex
}

// findGoodResetPoint hops around the mesh looking for an unclaimed face so
// large open regions get stripped first.
func (s *stripifier) findGoodResetPoint() int {
	n := s.g.numReal
	if n == 0 {
		return noFace
	}

	start := -1
	if s.firstResetPass {
		start = s.findStartPoint()
		s.firstResetPass = false
	}
	if start == -1 {
		start = int(float32(n-1) * s.meshJump)
	}

	result := noFace
	i := start
	for {
		if s.g.faces[i].committed == noStrip {
			result = i
			break
		}
		if i++; i >= n {
			i = 0
		}
		if i == start {
			break
		}
	}

	s.meshJump += 0.1
	if s.meshJump > 1.0 {
		s.meshJump = 0.05
	}
	return result
}

// findTraversal looks for an edge at the free end of s that leads from a
// face of s to an untouched face, and returns a start for the next strip.
func (s *stripifier) findTraversal(st *strip) (stripStart, bool) {
	g := s.g
	ed := g.edges[st.start.edge]
	v := ed.v[0]
	if st.start.toV1 {
		v = ed.v[1]
	}

	untouched := noFace
	e := g.heads[v]
	for ; e != noEdge; e = g.nextInBucket(e, v) {
		f0, f1 := g.edges[e].faces[0], g.edges[e].faces[1]
		if f0 != noFace && g.isInStrip(st, f0) && f1 != noFace && !g.isMarked(st, f1) {
			untouched = f1
			break
		}
		if f1 != noFace && g.isInStrip(st, f1) && f0 != noFace && !g.isMarked(st, f0) {
			untouched = f0
			break
		}
	}
	if untouched == noFace {
		return stripStart{}, false
	}

	start := stripStart{face: untouched, edge: e}
	if g.sharesEdge(st, untouched) {
		start.toV1 = g.edges[e].v[0] == v
	} else {
		start.toV1 = g.edges[e].v[1] == v
	}
	return start, true
}

// findAllStrips runs experiment rounds until every face is committed.
func (s *stripifier) findAllStrips() []*strip {
	g := s.g
	var all []*strip
	experimentID, stripID := 0, 0

	for done := false; !done; {
		// Phase 1: six experiments per reset point, one per directed edge.
		experiments := make([][]*strip, 0, numSamples*6)
		resetPoints := make(map[int]struct{}, numSamples)

		for i := 0; i < numSamples; i++ {
			f := s.findGoodResetPoint()
			if f == noFace {
				done = true
				break
			}
			if _, tried := resetPoints[f]; tried {
				continue
			}
			resetPoints[f] = struct{}{}

			fv := g.faces[f].v
			for _, p := range [3][2]int{{fv[0], fv[1]}, {fv[1], fv[2]}, {fv[2], fv[0]}} {
				e := g.findEdge(p[0], p[1])
				for _, toV1 := range [2]bool{true, false} {
					st := newStrip(stripStart{face: f, edge: e, toV1: toV1}, stripID, experimentID)
					experiments = append(experiments, []*strip{st})
					stripID++
					experimentID++
				}
			}
		}
		if len(experiments) == 0 {
			break
		}

		// Phase 2: grow every experiment and chain follow-up strips onto it.
		for i, exp := range experiments {
			cur := exp[0]
			g.build(cur)
			for {
				start, ok := s.findTraversal(cur)
				if !ok {
					break
				}
				cur = newStrip(start, stripID, exp[0].experiment)
				stripID++
				g.build(cur)
				exp = append(exp, cur)
			}
			experiments[i] = exp
		}

		best, bestValue := 0, 0.0
		for i, exp := range experiments {
			if v := s.avgStripSize(exp); v > bestValue {
				bestValue = v
				best = i
			}
		}
		all = s.commitStrips(all, experiments[best])
	}
	return all
}

func (s *stripifier) avgStripSize(strips []*strip) float64 {
	size := 0
	for _, st := range strips {
		size += len(st.faces) - st.numDegenerates
	}
	return float64(size) / float64(len(strips))
}

// commitStrips turns the trial marks of an experiment into permanent ones.
func (s *stripifier) commitStrips(all, strips []*strip) []*strip {
	for _, st := range strips {
		st.experiment = noExperiment
		all = append(all, st)
		for _, f := range st.faces {
			s.g.mark(st, f)
		}
	}
	return all
}
