package artifact

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/omarflow/pxyzc/ir"
)

// Emit serializes a graph into the compiled binary format. source is the
// original document text, hashed into the header so Inspect (and the
// runtime) can detect a binary that no longer matches its source.
func Emit(g *ir.Graph, source []byte) ([]byte, error) {
	var predicateSection bytes.Buffer
	for _, p := range g.Predicates {
		if len(p.Bytecode) > 0xFFFF {
			return nil, fmt.Errorf("artifact: predicate %q bytecode is %d bytes, exceeds u16 length prefix", p.Name, len(p.Bytecode))
		}
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(p.Bytecode)))
		predicateSection.Write(lenBuf[:])
		predicateSection.Write(p.Bytecode)
	}

	nodesOffset := uint32(HeaderSize)
	edgesOffset := nodesOffset + uint32(len(g.Nodes))*NodeRecordSize
	predicatesOffset := edgesOffset + uint32(len(g.Edges))*EdgeRecordSize
	stringsOffset := predicatesOffset + uint32(predicateSection.Len())
	entriesOffset := stringsOffset + uint32(g.Strings.Len())

	sum := sha256.Sum256(source)

	h := Header{
		Magic:            Magic,
		VersionMajor:     VersionMajor,
		VersionMinor:     VersionMinor,
		NodeCount:        uint32(len(g.Nodes)),
		EdgeCount:        uint32(len(g.Edges)),
		PredicateCount:   uint32(len(g.Predicates)),
		StringPoolSize:   uint32(g.Strings.Len()),
		EntryCount:       uint32(len(g.Entries)),
		SourceSHA256:     sum,
		NodesOffset:      nodesOffset,
		EdgesOffset:      edgesOffset,
		PredicatesOffset: predicatesOffset,
		StringsOffset:    stringsOffset,
		EntriesOffset:    entriesOffset,
	}

	var out bytes.Buffer
	out.Grow(int(entriesOffset) + len(g.Entries)*EntryRecordSize)
	writeHeader(&out, h)

	for _, n := range g.Nodes {
		var rec [NodeRecordSize]byte
		binary.LittleEndian.PutUint32(rec[0:4], n.ID)
		rec[4] = byte(n.Kind)
		rec[5] = byte(n.Flags)
		binary.LittleEndian.PutUint16(rec[6:8], uint16(n.Opcode))
		binary.LittleEndian.PutUint32(rec[8:12], n.DataOffset)
		binary.LittleEndian.PutUint16(rec[12:14], n.EdgeStart)
		binary.LittleEndian.PutUint16(rec[14:16], n.EdgeCount)
		out.Write(rec[:])
	}

	for _, e := range g.Edges {
		var rec [EdgeRecordSize]byte
		binary.LittleEndian.PutUint32(rec[0:4], e.Target)
		binary.LittleEndian.PutUint32(rec[4:8], uint32(e.PredicateID))
		binary.LittleEndian.PutUint16(rec[8:10], e.Weight)
		binary.LittleEndian.PutUint16(rec[10:12], uint16(e.Flags))
		out.Write(rec[:])
	}

	out.Write(predicateSection.Bytes())
	out.Write(g.Strings.Bytes())

	for _, en := range g.Entries {
		var rec [EntryRecordSize]byte
		binary.LittleEndian.PutUint32(rec[0:4], en.Hash)
		binary.LittleEndian.PutUint32(rec[4:8], en.NodeID)
		out.Write(rec[:])
	}

	return out.Bytes(), nil
}

func writeHeader(out *bytes.Buffer, h Header) {
	var rec [HeaderSize]byte
	binary.LittleEndian.PutUint32(rec[0x00:], h.Magic)
	binary.LittleEndian.PutUint16(rec[0x04:], h.VersionMajor)
	binary.LittleEndian.PutUint16(rec[0x06:], h.VersionMinor)
	binary.LittleEndian.PutUint32(rec[0x08:], h.NodeCount)
	binary.LittleEndian.PutUint32(rec[0x0C:], h.EdgeCount)
	binary.LittleEndian.PutUint32(rec[0x10:], h.PredicateCount)
	binary.LittleEndian.PutUint32(rec[0x14:], h.StringPoolSize)
	binary.LittleEndian.PutUint32(rec[0x18:], h.EntryCount)
	binary.LittleEndian.PutUint32(rec[0x1C:], h.SchemaCount)
	copy(rec[0x20:0x40], h.SourceSHA256[:])
	binary.LittleEndian.PutUint32(rec[0x40:], h.NodesOffset)
	binary.LittleEndian.PutUint32(rec[0x44:], h.EdgesOffset)
	binary.LittleEndian.PutUint32(rec[0x48:], h.PredicatesOffset)
	binary.LittleEndian.PutUint32(rec[0x4C:], h.StringsOffset)
	binary.LittleEndian.PutUint32(rec[0x50:], h.EntriesOffset)
	binary.LittleEndian.PutUint32(rec[0x54:], h.SchemasOffset)
	out.Write(rec[:])
}
