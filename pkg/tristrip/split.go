package tristrip

// minChunkRemainder is the smallest remainder that becomes its own strip
// when a long strip is split; shorter tails stay on the previous chunk.
const minChunkRemainder = 4

func newChunk() *strip {
	return &strip{id: 0, experiment: noExperiment}
}

// splitUpStripsAndOptimize cuts strips into cache sized chunks, moves chunks
// below the minimum length into a triangle list and orders the rest for
// vertex cache reuse.
func (s *stripifier) splitUpStripsAndOptimize(all []*strip) ([]*strip, []int) {
	g := s.g
	threshold := s.cacheSize
	var chunks []*strip

	for _, st := range all {
		faces := st.faces
		actual := g.realFaces(st)
		if actual <= threshold {
			c := newChunk()
			c.faces = append([]int(nil), faces...)
			chunks = append(chunks, c)
			continue
		}

		numTimes := actual / threshold
		numLeftover := actual % threshold
		foldTail := numLeftover > 0 && numLeftover < minChunkRemainder
		pos := 0

		for j := 0; j < numTimes; j++ {
			c := newChunk()
			taken := 0
			for taken < threshold {
				f := faces[pos]
				pos++
				if g.faces[f].isDegenerate() {
					// a chunk never starts on a swap face
					if taken > 0 {
						c.faces = append(c.faces, f)
					}
					continue
				}
				c.faces = append(c.faces, f)
				taken++
			}

			if j == numTimes-1 && foldTail {
				for ctr := 0; ctr < numLeftover; pos++ {
					f := faces[pos]
					if !g.faces[f].isDegenerate() {
						ctr++
					}
					c.faces = append(c.faces, f)
				}
				numLeftover = 0
			}
			chunks = append(chunks, c)
		}

		if numLeftover != 0 {
			c := newChunk()
			for ctr := 0; ctr < numLeftover; pos++ {
				f := faces[pos]
				if !g.faces[f].isDegenerate() {
					ctr++
					c.faces = append(c.faces, f)
				} else if len(c.faces) > 0 {
					c.faces = append(c.faces, f)
				}
			}
			chunks = append(chunks, c)
		}
	}

	big, list := s.removeSmallStrips(chunks)
	if len(big) == 0 {
		return nil, list
	}
	return s.orderForCache(big), list
}

// removeSmallStrips moves strips shorter than minStripLength into a face
// list, greedily ordered by cache hits.
func (s *stripifier) removeSmallStrips(strips []*strip) ([]*strip, []int) {
	var big []*strip
	var small []int
	for _, st := range strips {
		if len(st.faces) < s.minStripLength {
			small = append(small, st.faces...)
		} else {
			big = append(big, st)
		}
	}
	if len(small) == 0 {
		return big, nil
	}

	list := make([]int, 0, len(small))
	visited := make([]bool, len(small))
	cache := NewVertexCache(s.cacheSize)
	for {
		best, bestHits := -1, -1
		for i, f := range small {
			if visited[i] {
				continue
			}
			if hits := s.numHitsFace(cache, f); hits > bestHits {
				bestHits = hits
				best = i
			}
		}
		if best == -1 {
			break
		}
		visited[best] = true
		s.updateCacheFace(cache, small[best])
		list = append(list, small[best])
	}
	return big, list
}

// orderForCache starts with the strip in the sparsest region and then keeps
// picking the strip with the most cache hits, preferring one whose winding
// needs no flip.
func (s *stripifier) orderForCache(strips []*strip) []*strip {
	g := s.g
	cache := NewVertexCache(s.cacheSize)

	first := 0
	minCost := float32(10000)
	for i, st := range strips {
		neighbors := 0
		for _, f := range st.faces {
			neighbors += g.numNeighbors(f)
		}
		if cost := float32(neighbors) / float32(len(st.faces)); cost < minCost {
			minCost = cost
			first = i
		}
	}

	out := make([]*strip, 0, len(strips))
	s.updateCacheStrip(cache, strips[first])
	out = append(out, strips[first])
	strips[first].visited = true
	wantsCW := len(strips[first].faces)%2 == 0

	for {
		best := -1
		bestHits := float32(-1)
		for i, st := range strips {
			if st.visited {
				continue
			}
			hits := s.numHitsStrip(cache, st)
			if hits > bestHits {
				bestHits = hits
				best = i
			} else if hits >= bestHits {
				order := g.firstFaceOrder(st)
				if wantsCW == isCW(g.faces[st.faces[0]].v, order[0], order[1]) {
					best = i
				}
			}
		}
		if best == -1 {
			break
		}
		strips[best].visited = true
		s.updateCacheStrip(cache, strips[best])
		out = append(out, strips[best])
		if len(strips[best].faces)%2 != 0 {
			wantsCW = !wantsCW
		}
	}
	return out
}

func (s *stripifier) updateCacheFace(cache *VertexCache, f int) {
	for _, v := range s.g.faces[f].v {
		cache.touch(v)
	}
}

func (s *stripifier) updateCacheStrip(cache *VertexCache, st *strip) {
	for _, f := range st.faces {
		s.updateCacheFace(cache, f)
	}
}

func (s *stripifier) numHitsFace(cache *VertexCache, f int) int {
	hits := 0
	for _, v := range s.g.faces[f].v {
		if cache.InCache(v) {
			hits++
		}
	}
	return hits
}

func (s *stripifier) numHitsStrip(cache *VertexCache, st *strip) float32 {
	hits := 0
	for _, f := range st.faces {
		hits += s.numHitsFace(cache, f)
	}
	return float32(hits) / float32(len(st.faces))
}
