package tristrip

// Stats describes how a set of primitive groups uses a FIFO vertex cache.
type Stats struct {
	Triangles   int     `yaml:"triangles"`
	Indices     int     `yaml:"indices"`
	DrawCalls   int     `yaml:"draw_calls"`
	Vertices    int     `yaml:"vertices"`
	CacheMisses int     `yaml:"cache_misses"`
	ACMR        float64 `yaml:"acmr"` // misses per triangle
	ATVR        float64 `yaml:"atvr"` // misses per referenced vertex
}

// Analyze replays the groups through a simulated cache of cacheSize entries.
// The cache is not flushed between groups.
func Analyze(groups []PrimitiveGroup, cacheSize int) Stats {
	var st Stats
	cache := NewVertexCache(cacheSize)
	used := make(map[int]struct{})

	for _, g := range groups {
		if len(g.Indices) == 0 {
			continue
		}
		st.DrawCalls++
		st.Indices += len(g.Indices)
		st.Triangles += len(g.Triangles())
		for _, v := range g.Indices {
			if g.isRestart(v) || v < 0 {
				continue
			}
			used[v] = struct{}{}
			if !cache.touch(v) {
				st.CacheMisses++
			}
		}
	}

	st.Vertices = len(used)
	if st.Triangles > 0 {
		st.ACMR = float64(st.CacheMisses) / float64(st.Triangles)
	}
	if st.Vertices > 0 {
		st.ATVR = float64(st.CacheMisses) / float64(st.Vertices)
	}
	return st
}

// AnalyzeList is Analyze for a plain triangle list.
func AnalyzeList(indices []int, cacheSize int) Stats {
	return Analyze([]PrimitiveGroup{{Mode: Triangles, Indices: indices}}, cacheSize)
}
