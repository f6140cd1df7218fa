package formats

import (
	"encoding/binary"
	"math"

	"github.com/Faultbox/midgard-strip/pkg/encoding"
)

// binReader is a little-endian cursor over a byte slice. The first short read
// sets err and every later read returns zero values, so callers check err
// once per record.
type binReader struct {
	data []byte
	off  int
	err  error

	// errShort is reported when the data runs out.
	errShort error
}

func newBinReader(data []byte, errShort error) *binReader {
	return &binReader{data: data, errShort: errShort}
}

func (r *binReader) remaining() int {
	return len(r.data) - r.off
}

func (r *binReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.remaining() {
		r.err = r.errShort
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *binReader) skip(n int) {
	r.bytes(n)
}

func (r *binReader) u8() uint8 {
	if b := r.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *binReader) u16() uint16 {
	if b := r.bytes(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *binReader) i32() int32 {
	if b := r.bytes(4); b != nil {
		return int32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (r *binReader) f32() float32 {
	if b := r.bytes(4); b != nil {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (r *binReader) vec3() [3]float32 {
	return [3]float32{r.f32(), r.f32(), r.f32()}
}

// str reads a fixed-length, null-terminated EUC-KR string.
func (r *binReader) str(n int) string {
	return encoding.FixedStringToUTF8(r.bytes(n))
}

// count reads an element count and checks that count elements of elemSize
// bytes fit in the remaining data.
func (r *binReader) count(elemSize int) int {
	n := int(r.i32())
	if r.err != nil {
		return 0
	}
	if n < 0 || n*elemSize > r.remaining() {
		r.err = r.errShort
		return 0
	}
	return n
}

// binWriter is the little-endian counterpart of binReader.
type binWriter struct {
	buf []byte
}

func (w *binWriter) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *binWriter) u8(v uint8)     { w.buf = append(w.buf, v) }
func (w *binWriter) u16(v uint16)   { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *binWriter) i32(v int32)    { w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v)) }
func (w *binWriter) f32(v float32)  { w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v)) }

func (w *binWriter) vec3(v [3]float32) {
	for _, f := range v {
		w.f32(f)
	}
}

// str writes s as a fixed-length EUC-KR field, truncated or null padded.
func (w *binWriter) str(s string, n int) {
	field := make([]byte, n)
	copy(field, encoding.UTF8ToEUCKR(s))
	w.buf = append(w.buf, field...)
}
