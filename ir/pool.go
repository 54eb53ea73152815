package ir

import "fmt"

// StringPool is an append-only byte buffer holding every interned string
// used by a compiled graph. Each entry is stored as its raw bytes followed
// by a single zero-byte terminator; offsets are stable once assigned, and
// re-interning identical content returns the original offset.
type StringPool struct {
	buf     []byte
	offsets map[string]uint32
}

// NewStringPool returns an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{offsets: make(map[string]uint32)}
}

// Intern stores s if it has not been seen before and returns its
// first-occurrence offset. Strings containing an embedded zero byte
// cannot be represented in the null-terminated wire format and return an
// error instead of silently truncating or escaping.
func (p *StringPool) Intern(s string) (uint32, error) {
	if off, ok := p.offsets[s]; ok {
		return off, nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return 0, fmt.Errorf("string pool: %q contains an embedded zero byte", s)
		}
	}
	off := uint32(len(p.buf))
	p.buf = append(p.buf, s...)
	p.buf = append(p.buf, 0)
	p.offsets[s] = off
	return off, nil
}

// MustIntern is a convenience wrapper for call sites that have already
// validated the string cannot contain a zero byte (e.g. literals compiled
// from AST fields already checked by the parser).
func (p *StringPool) MustIntern(s string) uint32 {
	off, err := p.Intern(s)
	if err != nil {
		panic(err)
	}
	return off
}

// Lookup returns the zero-terminated string stored at off, or ok=false if
// off does not mark the start of an interned string.
func (p *StringPool) Lookup(off uint32) (string, bool) {
	if int(off) >= len(p.buf) {
		return "", false
	}
	end := off
	for end < uint32(len(p.buf)) && p.buf[end] != 0 {
		end++
	}
	if end >= uint32(len(p.buf)) {
		return "", false
	}
	return string(p.buf[off:end]), true
}

// Bytes returns the raw concatenated, null-terminated pool contents, ready
// to be written as the binary's string pool section.
func (p *StringPool) Bytes() []byte {
	return p.buf
}

// Len returns the current size of the pool in bytes.
func (p *StringPool) Len() int {
	return len(p.buf)
}
