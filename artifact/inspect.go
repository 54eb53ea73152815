package artifact

import (
	"encoding/binary"
	"fmt"
)

// Inspect parses just the header of a compiled binary, failing with a
// clear error if the input is too short or the magic number does not
// match. It never validates section offsets against the rest of the
// buffer — that is the caller's job if it intends to decode further.
func Inspect(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("artifact: input is %d bytes, shorter than the %d-byte header", len(data), HeaderSize)
	}

	magic := binary.LittleEndian.Uint32(data[0x00:])
	if magic != Magic {
		return Header{}, fmt.Errorf("artifact: bad magic 0x%08X, expected 0x%08X", magic, Magic)
	}

	var h Header
	h.Magic = magic
	h.VersionMajor = binary.LittleEndian.Uint16(data[0x04:])
	h.VersionMinor = binary.LittleEndian.Uint16(data[0x06:])
	h.NodeCount = binary.LittleEndian.Uint32(data[0x08:])
	h.EdgeCount = binary.LittleEndian.Uint32(data[0x0C:])
	h.PredicateCount = binary.LittleEndian.Uint32(data[0x10:])
	h.StringPoolSize = binary.LittleEndian.Uint32(data[0x14:])
	h.EntryCount = binary.LittleEndian.Uint32(data[0x18:])
	h.SchemaCount = binary.LittleEndian.Uint32(data[0x1C:])
	copy(h.SourceSHA256[:], data[0x20:0x40])
	h.NodesOffset = binary.LittleEndian.Uint32(data[0x40:])
	h.EdgesOffset = binary.LittleEndian.Uint32(data[0x44:])
	h.PredicatesOffset = binary.LittleEndian.Uint32(data[0x48:])
	h.StringsOffset = binary.LittleEndian.Uint32(data[0x4C:])
	h.EntriesOffset = binary.LittleEndian.Uint32(data[0x50:])
	h.SchemasOffset = binary.LittleEndian.Uint32(data[0x54:])

	return h, nil
}
