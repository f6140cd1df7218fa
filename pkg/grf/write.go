package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/midgard-strip/pkg/encoding"
)

// File is one file to pack with Create.
type File struct {
	Name string // slash separated, stored with backslashes
	Data []byte
}

// Create writes a version 0x200 archive holding files. Contents are zlib
// compressed unless that does not shrink them, and padded to 8 bytes.
func Create(path string, files []File) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var body, table bytes.Buffer
	for _, file := range files {
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(file.Data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}

		payload := compressed.Bytes()
		if len(payload) >= len(file.Data) {
			// Equal sizes mark a stored entry.
			payload = file.Data
		}

		aligned := len(payload)
		if aligned%8 != 0 {
			aligned += 8 - aligned%8
		}
		offset := uint32(body.Len())
		body.Write(payload)
		body.Write(make([]byte, aligned-len(payload)))

		name := strings.ReplaceAll(file.Name, "/", "\\")
		table.Write(encoding.UTF8ToEUCKR(name))
		table.WriteByte(0)

		var rec [entrySize]byte
		binary.LittleEndian.PutUint32(rec[0:], uint32(len(payload)))
		binary.LittleEndian.PutUint32(rec[4:], uint32(aligned))
		binary.LittleEndian.PutUint32(rec[8:], uint32(len(file.Data)))
		rec[12] = FlagFile
		binary.LittleEndian.PutUint32(rec[13:], offset)
		table.Write(rec[:])
	}

	var compressedTable bytes.Buffer
	zw := zlib.NewWriter(&compressedTable)
	if _, err := zw.Write(table.Bytes()); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	header := Header{
		TableOffset: uint32(body.Len()),
		FileCount:   uint32(len(files)) + 7, // seed 0
		Version:     grfVersion,
	}
	copy(header.Magic[:], grfMagic)

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		return err
	}
	out.Write(body.Bytes())
	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:], uint32(compressedTable.Len()))
	binary.LittleEndian.PutUint32(sizes[4:], uint32(table.Len()))
	out.Write(sizes[:])
	out.Write(compressedTable.Bytes())

	_, err = f.Write(out.Bytes())
	return err
}
