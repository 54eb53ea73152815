package ir

import "testing"

func TestHashPX(t *testing.T) {
	cases := []struct {
		name string
		p, x string
	}{
		{"empty/empty", "", ""},
		{"stable across calls", "user:42", "order.created"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got1 := HashPX(tc.p, tc.x)
			got2 := HashPX(tc.p, tc.x)
			if got1 != got2 {
				t.Fatalf("HashPX not deterministic: %d != %d", got1, got2)
			}
		})
	}

	t.Run("different inputs hash differently", func(t *testing.T) {
		a := HashPX("user:1", "login")
		b := HashPX("user:2", "login")
		if a == b {
			t.Fatal("expected distinct hashes for distinct p values")
		}
	})

	t.Run("separator prevents concatenation collisions", func(t *testing.T) {
		a := HashPX("ab", "c")
		b := HashPX("a", "bc")
		if a == b {
			t.Fatal("expected HashPX(\"ab\",\"c\") != HashPX(\"a\",\"bc\")")
		}
	})
}
