package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
	ErrInvalidFaceIndex      = errors.New("RSM face references a missing vertex")
)

const (
	rsmMagic        = "GRSM"
	rsmNameSize     = 40
	rsmMaxNodes     = 10000
	rsmReservedSize = 16
)

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// RSMShadingType represents the shading mode for rendering.
type RSMShadingType int32

const (
	RSMShadingNone   RSMShadingType = 0
	RSMShadingFlat   RSMShadingType = 1
	RSMShadingSmooth RSMShadingType = 2
)

// String returns a human-readable shading type name.
func (s RSMShadingType) String() string {
	switch s {
	case RSMShadingNone:
		return "None"
	case RSMShadingFlat:
		return "Flat"
	case RSMShadingSmooth:
		return "Smooth"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// RSMTexCoord represents a texture coordinate with optional vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // RGBA vertex color (v1.2+)
	U, V  float32
}

// RSMFace represents a triangle face in a mesh.
type RSMFace struct {
	VertexIDs   [3]uint16 // Indices into vertex array
	TexCoordIDs [3]uint16 // Indices into texcoord array
	TextureID   uint16    // Index into node's texture array
	TwoSide     int32     // Double-sided rendering flag
	SmoothGroup int32     // Smoothing group ID (v1.2+)
}

// RSMPosKeyframe represents a position animation keyframe.
type RSMPosKeyframe struct {
	Frame    int32
	Position [3]float32
}

// RSMRotKeyframe represents a rotation animation keyframe.
type RSMRotKeyframe struct {
	Frame      int32
	Quaternion [4]float32 // X, Y, Z, W
}

// RSMScaleKeyframe represents a scale animation keyframe.
type RSMScaleKeyframe struct {
	Frame int32
	Scale [3]float32
}

// RSMNode represents a node in the model hierarchy.
type RSMNode struct {
	Name       string
	Parent     string  // empty for root
	TextureIDs []int32 // Indices into RSM.Textures

	Matrix   [9]float32 // 3x3 rotation matrix
	Offset   [3]float32 // Pivot point offset
	Position [3]float32
	RotAngle float32 // radians
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe   // v < 1.5
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe // v >= 1.5
}

// TriangleIndices flattens the node's faces into a triangle list over
// Vertices.
func (n *RSMNode) TriangleIndices() ([]int, error) {
	indices := make([]int, 0, 3*len(n.Faces))
	for i, f := range n.Faces {
		for _, v := range f.VertexIDs {
			if int(v) >= len(n.Vertices) {
				return nil, fmt.Errorf("%w: node %q face %d vertex %d of %d",
					ErrInvalidFaceIndex, n.Name, i, v, len(n.Vertices))
			}
			indices = append(indices, int(v))
		}
	}
	return indices, nil
}

// RSMVolumeBox represents a bounding volume box.
type RSMVolumeBox struct {
	Size     [3]float32
	Position [3]float32
	Rotation [3]float32 // Euler angles
	Flag     int32      // v1.3+
}

// RSM represents a parsed RSM (Resource Model) file.
type RSM struct {
	Version     RSMVersion
	AnimLength  int32 // milliseconds
	Shading     RSMShadingType
	Alpha       float32 // 0-1
	Textures    []string
	RootNode    string
	Nodes       []RSMNode
	VolumeBoxes []RSMVolumeBox
}

func faceSize(v RSMVersion) int {
	if v.AtLeast(1, 2) {
		return 24
	}
	return 20
}

func texCoordSize(v RSMVersion) int {
	if v.AtLeast(1, 2) {
		return 12
	}
	return 8
}

func volumeBoxSize(v RSMVersion) int {
	if v.AtLeast(1, 3) {
		return 40
	}
	return 36
}

// ParseRSM parses RSM data from a byte slice.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSMData
	}
	r := newBinReader(data, ErrTruncatedRSMData)

	if string(r.bytes(4)) != rsmMagic {
		return nil, ErrInvalidRSMMagic
	}

	rsm := &RSM{
		Version: RSMVersion{Major: r.u8(), Minor: r.u8()},
	}
	if rsm.Version.Major < 1 || rsm.Version.Major > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	rsm.AnimLength = r.i32()
	rsm.Shading = RSMShadingType(r.i32())

	rsm.Alpha = 1.0
	if rsm.Version.AtLeast(1, 4) {
		rsm.Alpha = float32(r.u8()) / 255.0
	}
	r.skip(rsmReservedSize)

	rsm.Textures = make([]string, r.count(rsmNameSize))
	for i := range rsm.Textures {
		rsm.Textures[i] = r.str(rsmNameSize)
	}

	rsm.RootNode = r.str(rsmNameSize)

	nodeCount := r.i32()
	if r.err != nil {
		return nil, r.err
	}
	if nodeCount < 0 || nodeCount > rsmMaxNodes {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNodeCount, nodeCount)
	}

	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		if err := parseRSMNode(r, rsm.Version, &rsm.Nodes[i]); err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, err)
		}
	}

	// Volume boxes are optional trailing data.
	if r.remaining() >= 4 {
		rsm.VolumeBoxes = make([]RSMVolumeBox, r.count(volumeBoxSize(rsm.Version)))
		for i := range rsm.VolumeBoxes {
			box := &rsm.VolumeBoxes[i]
			box.Size = r.vec3()
			box.Position = r.vec3()
			box.Rotation = r.vec3()
			if rsm.Version.AtLeast(1, 3) {
				box.Flag = r.i32()
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("parsing volume boxes: %w", r.err)
		}
	}

	return rsm, nil
}

// parseRSMNode parses a single node from the reader.
func parseRSMNode(r *binReader, version RSMVersion, node *RSMNode) error {
	node.Name = r.str(rsmNameSize)
	node.Parent = r.str(rsmNameSize)

	node.TextureIDs = make([]int32, r.count(4))
	for i := range node.TextureIDs {
		node.TextureIDs[i] = r.i32()
	}

	for i := range node.Matrix {
		node.Matrix[i] = r.f32()
	}
	node.Offset = r.vec3()
	node.Position = r.vec3()
	node.RotAngle = r.f32()
	node.RotAxis = r.vec3()
	node.Scale = r.vec3()

	node.Vertices = make([][3]float32, r.count(12))
	for i := range node.Vertices {
		node.Vertices[i] = r.vec3()
	}

	node.TexCoords = make([]RSMTexCoord, r.count(texCoordSize(version)))
	for i := range node.TexCoords {
		tc := &node.TexCoords[i]
		tc.Color = [4]uint8{255, 255, 255, 255}
		if version.AtLeast(1, 2) {
			copy(tc.Color[:], r.bytes(4))
		}
		tc.U = r.f32()
		tc.V = r.f32()
	}

	node.Faces = make([]RSMFace, r.count(faceSize(version)))
	for i := range node.Faces {
		face := &node.Faces[i]
		for j := range face.VertexIDs {
			face.VertexIDs[j] = r.u16()
		}
		for j := range face.TexCoordIDs {
			face.TexCoordIDs[j] = r.u16()
		}
		face.TextureID = r.u16()
		r.skip(2) // padding
		face.TwoSide = r.i32()
		if version.AtLeast(1, 2) {
			face.SmoothGroup = r.i32()
		}
	}

	if !version.AtLeast(1, 5) {
		node.PosKeys = make([]RSMPosKeyframe, r.count(16))
		for i := range node.PosKeys {
			node.PosKeys[i] = RSMPosKeyframe{Frame: r.i32(), Position: r.vec3()}
		}
	}

	node.RotKeys = make([]RSMRotKeyframe, r.count(20))
	for i := range node.RotKeys {
		key := &node.RotKeys[i]
		key.Frame = r.i32()
		for j := range key.Quaternion {
			key.Quaternion[j] = r.f32()
		}
	}

	if version.AtLeast(1, 5) {
		node.ScaleKeys = make([]RSMScaleKeyframe, r.count(16))
		for i := range node.ScaleKeys {
			node.ScaleKeys[i] = RSMScaleKeyframe{Frame: r.i32(), Scale: r.vec3()}
		}
	}

	return r.err
}

// MarshalBinary encodes the model in the layout ParseRSM reads.
func (rsm *RSM) MarshalBinary() ([]byte, error) {
	if rsm.Version.Major < 1 || rsm.Version.Major > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}
	v := rsm.Version

	w := &binWriter{}
	w.bytes([]byte(rsmMagic))
	w.u8(v.Major)
	w.u8(v.Minor)
	w.i32(rsm.AnimLength)
	w.i32(int32(rsm.Shading))
	if v.AtLeast(1, 4) {
		w.u8(uint8(rsm.Alpha*255 + 0.5))
	}
	w.bytes(make([]byte, rsmReservedSize))

	w.i32(int32(len(rsm.Textures)))
	for _, tex := range rsm.Textures {
		w.str(tex, rsmNameSize)
	}
	w.str(rsm.RootNode, rsmNameSize)

	w.i32(int32(len(rsm.Nodes)))
	for i := range rsm.Nodes {
		writeRSMNode(w, v, &rsm.Nodes[i])
	}

	w.i32(int32(len(rsm.VolumeBoxes)))
	for _, box := range rsm.VolumeBoxes {
		w.vec3(box.Size)
		w.vec3(box.Position)
		w.vec3(box.Rotation)
		if v.AtLeast(1, 3) {
			w.i32(box.Flag)
		}
	}

	return w.buf, nil
}

func writeRSMNode(w *binWriter, v RSMVersion, node *RSMNode) {
	w.str(node.Name, rsmNameSize)
	w.str(node.Parent, rsmNameSize)

	w.i32(int32(len(node.TextureIDs)))
	for _, id := range node.TextureIDs {
		w.i32(id)
	}

	for _, m := range node.Matrix {
		w.f32(m)
	}
	w.vec3(node.Offset)
	w.vec3(node.Position)
	w.f32(node.RotAngle)
	w.vec3(node.RotAxis)
	w.vec3(node.Scale)

	w.i32(int32(len(node.Vertices)))
	for _, vert := range node.Vertices {
		w.vec3(vert)
	}

	w.i32(int32(len(node.TexCoords)))
	for _, tc := range node.TexCoords {
		if v.AtLeast(1, 2) {
			w.bytes(tc.Color[:])
		}
		w.f32(tc.U)
		w.f32(tc.V)
	}

	w.i32(int32(len(node.Faces)))
	for _, f := range node.Faces {
		for _, id := range f.VertexIDs {
			w.u16(id)
		}
		for _, id := range f.TexCoordIDs {
			w.u16(id)
		}
		w.u16(f.TextureID)
		w.u16(0)
		w.i32(f.TwoSide)
		if v.AtLeast(1, 2) {
			w.i32(f.SmoothGroup)
		}
	}

	if !v.AtLeast(1, 5) {
		w.i32(int32(len(node.PosKeys)))
		for _, k := range node.PosKeys {
			w.i32(k.Frame)
			w.vec3(k.Position)
		}
	}

	w.i32(int32(len(node.RotKeys)))
	for _, k := range node.RotKeys {
		w.i32(k.Frame)
		for _, q := range k.Quaternion {
			w.f32(q)
		}
	}

	if v.AtLeast(1, 5) {
		w.i32(int32(len(node.ScaleKeys)))
		for _, k := range node.ScaleKeys {
			w.i32(k.Frame)
			w.vec3(k.Scale)
		}
	}
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// GetTotalVertexCount returns the total number of vertices across all nodes.
func (rsm *RSM) GetTotalVertexCount() int {
	total := 0
	for _, node := range rsm.Nodes {
		total += len(node.Vertices)
	}
	return total
}

// GetTotalFaceCount returns the total number of faces across all nodes.
func (rsm *RSM) GetTotalFaceCount() int {
	total := 0
	for _, node := range rsm.Nodes {
		total += len(node.Faces)
	}
	return total
}

// GetNodeByName returns a node by its name, or nil if not found.
func (rsm *RSM) GetNodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// GetRootNode returns the root node (first node matching RootNode name).
func (rsm *RSM) GetRootNode() *RSMNode {
	return rsm.GetNodeByName(rsm.RootNode)
}

// GetChildNodes returns all nodes that have the given parent name.
func (rsm *RSM) GetChildNodes(parentName string) []*RSMNode {
	var children []*RSMNode
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == parentName {
			children = append(children, &rsm.Nodes[i])
		}
	}
	return children
}
