package ir

import "testing"

func TestStringPool(t *testing.T) {
	t.Run("intern then lookup round trip", func(t *testing.T) {
		p := NewStringPool()
		off, err := p.Intern("hello")
		if err != nil {
			t.Fatalf("Intern: %v", err)
		}
		got, ok := p.Lookup(off)
		if !ok || got != "hello" {
			t.Fatalf("Lookup(%d) = %q, %v; want %q, true", off, got, ok, "hello")
		}
	})

	t.Run("re-interning returns the original offset", func(t *testing.T) {
		p := NewStringPool()
		off1, _ := p.Intern("duplicate")
		off2, err := p.Intern("duplicate")
		if err != nil {
			t.Fatalf("Intern: %v", err)
		}
		if off1 != off2 {
			t.Fatalf("expected same offset for re-interned string, got %d and %d", off1, off2)
		}
	})

	t.Run("distinct strings get distinct offsets", func(t *testing.T) {
		p := NewStringPool()
		off1, _ := p.Intern("a")
		off2, _ := p.Intern("b")
		if off1 == off2 {
			t.Fatal("expected distinct offsets for distinct strings")
		}
	})

	t.Run("embedded zero byte is rejected", func(t *testing.T) {
		p := NewStringPool()
		if _, err := p.Intern("bad\x00string"); err == nil {
			t.Fatal("expected an error for a string containing a zero byte")
		}
	})

	t.Run("lookup past the buffer fails", func(t *testing.T) {
		p := NewStringPool()
		p.MustIntern("x")
		if _, ok := p.Lookup(9999); ok {
			t.Fatal("expected Lookup to fail for an out-of-range offset")
		}
	})

	t.Run("bytes reflects null-terminated concatenation", func(t *testing.T) {
		p := NewStringPool()
		p.MustIntern("ab")
		p.MustIntern("cd")
		want := "ab\x00cd\x00"
		if got := string(p.Bytes()); got != want {
			t.Fatalf("Bytes() = %q, want %q", got, want)
		}
	})
}
