// Package artifact implements the byte-exact binary format this compiler
// emits: a 96-byte header followed by node, edge, predicate, string-pool,
// and entry-point sections, plus an Inspect reader for the same format.
package artifact

// Magic identifies a compiled binary. The name is read right-to-left as
// ASCII "PNYX" once byte-swapped for little-endian storage.
const Magic uint32 = 0x504E5958

const (
	VersionMajor uint16 = 1
	VersionMinor uint16 = 0
)

const HeaderSize = 96

const (
	NodeRecordSize      = 16
	EdgeRecordSize      = 12
	EntryRecordSize     = 8
	predicateLengthSize = 2
)

// Header mirrors the 96-byte on-disk header exactly, field for field.
type Header struct {
	Magic           uint32
	VersionMajor    uint16
	VersionMinor    uint16
	NodeCount       uint32
	EdgeCount       uint32
	PredicateCount  uint32
	StringPoolSize  uint32
	EntryCount      uint32
	SchemaCount     uint32 // reserved, always zero
	SourceSHA256    [32]byte
	NodesOffset     uint32
	EdgesOffset     uint32
	PredicatesOffset uint32
	StringsOffset   uint32
	EntriesOffset   uint32
	SchemasOffset   uint32 // reserved, always zero
}
