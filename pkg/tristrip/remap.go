package tristrip

// RemapIndices renumbers vertices in the order the groups first touch them.
// It returns the new groups and a table mapping old vertex index to new,
// with -1 for vertices no group references. Callers reorder their vertex
// buffer to match.
//
// New indices never take the restart value of a restart group, so the table
// may leave that slot unused.
func RemapIndices(groups []PrimitiveGroup, numVerts int) ([]PrimitiveGroup, []int) {
	remap := make([]int, numVerts)
	for i := range remap {
		remap[i] = -1
	}

	reserved := make(map[int]bool)
	for _, g := range groups {
		if g.Restart {
			reserved[g.RestartIndex] = true
		}
	}

	next := 0
	out := make([]PrimitiveGroup, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Indices = make([]int, len(g.Indices))
		for j, v := range g.Indices {
			if g.isRestart(v) || v < 0 || v >= numVerts {
				out[i].Indices[j] = v
				continue
			}
			if remap[v] == -1 {
				for reserved[next] {
					next++
				}
				remap[v] = next
				next++
			}
			out[i].Indices[j] = remap[v]
		}
	}
	return out, remap
}
