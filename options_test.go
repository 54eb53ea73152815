package pxyzc

import "testing"

func TestCompileOptionsZeroValue(t *testing.T) {
	var opts CompileOptions
	if opts.Optimize || opts.Strict || opts.EmitAudit {
		t.Errorf("expected all-false zero value, got %+v", opts)
	}
}

func TestGraphInfoFieldsRoundTrip(t *testing.T) {
	info := GraphInfo{
		VersionMajor:   1,
		VersionMinor:   2,
		NodeCount:      3,
		EdgeCount:      4,
		PredicateCount: 5,
		StringPoolSize: 6,
		EntryCount:     7,
		BinarySize:     8,
	}
	if info.VersionMajor != 1 || info.BinarySize != 8 {
		t.Errorf("unexpected GraphInfo: %+v", info)
	}
}
