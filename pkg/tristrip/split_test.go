package tristrip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks(t *testing.T) {
	// cache 14 leaves chunks of 8 faces
	tests := []struct {
		name  string
		quads int
		want  []int
	}{
		{"short strip stays whole", 5, []int{10}},
		{"remainder of 4 gets its own chunk", 6, []int{4, 8}},
		{"remainder of 2 folds into the last chunk", 9, []int{8, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.CacheSize = 14
			opts.StitchStrips = false
			s := newTestStripper(t, opts)

			input := gridMesh(tt.quads, 1)
			groups, err := s.GenerateStrips(input, true)
			require.NoError(t, err)

			var counts []int
			for _, g := range groups {
				require.Equal(t, TriangleStrip, g.Mode)
				require.GreaterOrEqual(t, len(g.Indices), 3)
				assert.False(t, isDegenerate(g.Indices[0], g.Indices[1], g.Indices[2]),
					"strip %v starts on a swap face", g.Indices)
				counts = append(counts, len(g.Triangles()))
			}
			assert.Equal(t, tt.want, counts)
			assert.Equal(t, inputTriangles(input), outputTriangles(groups))
		})
	}
}
