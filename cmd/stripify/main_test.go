package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-strip/internal/config"
	"github.com/Faultbox/midgard-strip/internal/pipeline"
	"github.com/Faultbox/midgard-strip/pkg/grf"
)

func planeOBJ(n int) string {
	var b strings.Builder
	b.WriteString("o plane\n")
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			fmt.Fprintf(&b, "v %d 0 %d\n", x, z)
		}
	}
	at := func(x, z int) int { return z*(n+1) + x + 1 }
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			fmt.Fprintf(&b, "f %d %d %d %d\n", at(x, z), at(x, z+1), at(x+1, z+1), at(x+1, z))
		}
	}
	return b.String()
}

func writePlane(t *testing.T, dir, name string, n int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(planeOBJ(n)), 0644))
	return p
}

func testArchive(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.grf")
	require.NoError(t, grf.Create(p, []grf.File{
		{Name: "data/model/plane.obj", Data: []byte(planeOBJ(3))},
		{Name: "data/model/floor.obj", Data: []byte(planeOBJ(2))},
		{Name: "data/texture/floor.bmp", Data: []byte("BM")},
	}))
	return p
}

func TestCmdStats(t *testing.T) {
	path := writePlane(t, t.TempDir(), "plane.obj", 3)

	var out bytes.Buffer
	require.NoError(t, cmdStats(config.Default(), []string{path}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "MESH"))
	assert.Contains(t, lines[1], "plane.obj/plane")
	assert.Equal(t, []string{"16", "18"}, strings.Fields(lines[1])[1:3])
}

func TestCmdStrip(t *testing.T) {
	dir := t.TempDir()
	writePlane(t, dir, "a.obj", 4)
	writePlane(t, dir, "b.obj", 2)
	report := filepath.Join(dir, "report.yaml")

	var out bytes.Buffer
	require.NoError(t, cmdStrip(context.Background(), config.Default(), []string{"-o", report, dir}, &out))

	assert.Contains(t, out.String(), "Meshes:    2 (0 failed)")
	assert.Contains(t, out.String(), "Triangles: 40")
	assert.Contains(t, out.String(), "Report: "+report)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "summary:")
	assert.Contains(t, string(data), "mode: TriangleStrip")
}

func TestCmdStripStdout(t *testing.T) {
	path := writePlane(t, t.TempDir(), "a.obj", 2)

	var out bytes.Buffer
	require.NoError(t, cmdStrip(context.Background(), config.Default(), []string{"-o", "-", path}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "summary:"))
}

func TestCmdGRF(t *testing.T) {
	cfg := config.Default()
	cfg.Data.GRFPaths = []string{testArchive(t)}

	var out bytes.Buffer
	require.NoError(t, cmdGRF(context.Background(), cfg, nil, &out))
	assert.Contains(t, out.String(), "data/model/floor.obj/plane")
	assert.Contains(t, out.String(), "data/model/plane.obj/plane")
	assert.Contains(t, out.String(), "Triangles: 26")

	out.Reset()
	err := cmdGRF(context.Background(), cfg, []string{"*.rsm"}, &out)
	assert.ErrorContains(t, err, "no meshes match")
}

func TestCmdArchiveTools(t *testing.T) {
	archive := testArchive(t)

	var out bytes.Buffer
	require.NoError(t, cmdInfo([]string{archive}, &out))
	assert.Contains(t, out.String(), "Files:   3")
	assert.Contains(t, out.String(), "Meshes:  2")

	out.Reset()
	require.NoError(t, cmdList([]string{"-n", "2", archive}, &out))
	assert.Equal(t, "data/model/floor.obj\ndata/model/plane.obj\n", out.String())

	out.Reset()
	require.NoError(t, cmdList([]string{archive, "*.bmp"}, &out))
	assert.Equal(t, "data/texture/floor.bmp\n", out.String())

	dir := t.TempDir()
	out.Reset()
	require.NoError(t, cmdExtract([]string{archive, "*.obj", dir}, &out))
	assert.Contains(t, out.String(), "Extracted 2 files")

	data, err := os.ReadFile(filepath.Join(dir, "data", "model", "plane.obj"))
	require.NoError(t, err)
	assert.Equal(t, planeOBJ(3), string(data))
}

func TestUsageErrors(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer

	assert.ErrorIs(t, cmdStats(cfg, nil, &out), errUsage)
	assert.ErrorIs(t, cmdStrip(context.Background(), cfg, nil, &out), errUsage)
	assert.ErrorIs(t, cmdInfo(nil, &out), errUsage)
	assert.ErrorIs(t, cmdList(nil, &out), errUsage)
	assert.ErrorIs(t, cmdExtract([]string{"data.grf"}, &out), errUsage)
	assert.ErrorIs(t, cmdWatch(context.Background(), cfg, nil, &out), errUsage)
}

func TestShouldProcess(t *testing.T) {
	opts := pipeline.LoadOptions{}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write obj", fsnotify.Event{Name: "a.obj", Op: fsnotify.Write}, true},
		{"create rsm", fsnotify.Event{Name: "b.RSM", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: "a.obj", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "a.obj", Op: fsnotify.Remove}, false},
		{"texture", fsnotify.Event{Name: "a.bmp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldProcess(tt.event, opts))
		})
	}
}

func TestDrain(t *testing.T) {
	pending := map[string]struct{}{"b.obj": {}, "a.obj": {}}
	assert.Equal(t, []string{"a.obj", "b.obj"}, drain(pending))
	assert.Empty(t, pending)
}

func TestStripFile(t *testing.T) {
	dir := t.TempDir()
	path := writePlane(t, dir, "a.obj", 3)

	var out bytes.Buffer
	require.NoError(t, stripFile(context.Background(), config.Default(), path, pipeline.LoadOptions{}, &out))
	assert.Contains(t, out.String(), "a.obj: 1 meshes, 18 triangles")

	out.Reset()
	require.NoError(t, stripFile(context.Background(), config.Default(), dir, pipeline.LoadOptions{}, &out))
	assert.Empty(t, out.String())

	assert.Error(t, stripFile(context.Background(), config.Default(), filepath.Join(dir, "gone.obj"), pipeline.LoadOptions{}, &out))
}

func TestCmdConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stripify.toml")

	var out bytes.Buffer
	require.NoError(t, cmdConfig(config.Default(), []string{path}, &out))
	assert.Contains(t, out.String(), "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cache_size = 24")
}
