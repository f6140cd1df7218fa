package tristrip

import "github.com/gogpu/gputypes"

// Topology returns the WebGPU primitive topology for the group.
func (p PrimitiveGroup) Topology() gputypes.PrimitiveTopology {
	if p.Mode == TriangleStrip {
		return gputypes.PrimitiveTopologyTriangleStrip
	}
	return gputypes.PrimitiveTopologyTriangleList
}

// IndexFormat picks the narrowest index format able to hold the group. Groups
// using primitive restart are uploaded with Uint32 or Uint16 restart values,
// see Uint32 and Uint16.
func (p PrimitiveGroup) IndexFormat() gputypes.IndexFormat {
	if p.maxVertex() < 0xFFFF {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}
