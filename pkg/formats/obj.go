package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidOBJ is returned for malformed OBJ records.
var ErrInvalidOBJ = errors.New("invalid OBJ data")

// OBJCorner is one triangle corner. Attribute indices are zero based, -1
// when the face did not reference that attribute.
type OBJCorner struct {
	V, VT, VN int
}

// OBJObject is a named run of triangles ("o" or "g" record).
type OBJObject struct {
	Name      string
	Triangles [][3]OBJCorner
}

// OBJ is a parsed Wavefront OBJ file. Polygons are fan triangulated.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Objects   []OBJObject

	// Unsupported counts records that were skipped, by keyword.
	Unsupported map[string]int

	line int
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// ParseOBJ reads v, vt, vn, f, o and g records. Everything else (materials,
// smoothing groups, lines) is skipped.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{Unsupported: make(map[string]int)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		obj.line++
		if err := obj.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return obj, nil
}

// TriangleCount returns the number of triangles across all objects.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, ob := range o.Objects {
		n += len(ob.Triangles)
	}
	return n
}

func (o *OBJ) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidOBJ, o.line, fmt.Sprintf(format, args...))
}

func (o *OBJ) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := o.parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		o.Positions = append(o.Positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := o.parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		o.TexCoords = append(o.TexCoords, [2]float32{v[0], v[1]})
	case "vn":
		v, err := o.parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		o.Normals = append(o.Normals, [3]float32{v[0], v[1], v[2]})
	case "o", "g":
		name := ""
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		o.Objects = append(o.Objects, OBJObject{Name: name})
	case "f":
		return o.parseFace(fields[1:])
	default:
		o.Unsupported[fields[0]]++
	}
	return nil
}

func (o *OBJ) parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, o.errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		val, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, o.errorf("%v", err)
		}
		out[i] = float32(val)
	}
	return out, nil
}

// parseFace parses f v1[/vt1][/vn1] v2... and fans it into triangles around
// the first corner.
func (o *OBJ) parseFace(fields []string) error {
	if len(fields) < 3 {
		return o.errorf("face with %d corners", len(fields))
	}

	corners := make([]OBJCorner, len(fields))
	for i, f := range fields {
		c, err := o.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	if len(o.Objects) == 0 {
		o.Objects = append(o.Objects, OBJObject{Name: "default"})
	}
	cur := &o.Objects[len(o.Objects)-1]
	for i := 1; i+1 < len(corners); i++ {
		cur.Triangles = append(cur.Triangles, [3]OBJCorner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

func (o *OBJ) parseCorner(field string) (OBJCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return OBJCorner{}, o.errorf("bad face corner %q", field)
	}

	c := OBJCorner{V: -1, VT: -1, VN: -1}
	var err error
	if c.V, err = o.resolve(parts[0], len(o.Positions)); err != nil {
		return c, err
	}
	if c.V < 0 {
		return c, o.errorf("face corner %q has no position", field)
	}
	if len(parts) > 1 {
		if c.VT, err = o.resolve(parts[1], len(o.TexCoords)); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 {
		if c.VN, err = o.resolve(parts[2], len(o.Normals)); err != nil {
			return c, err
		}
	}
	return c, nil
}

// resolve turns a 1-based or negative (relative) OBJ index into a zero based
// one. An empty field yields -1.
func (o *OBJ) resolve(s string, n int) (int, error) {
	if s == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, o.errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, o.errorf("index %d out of range (%d defined)", i, n)
	}
}
