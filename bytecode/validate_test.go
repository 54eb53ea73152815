package bytecode

import "testing"

func TestValidate(t *testing.T) {
	t.Run("empty bytecode is rejected", func(t *testing.T) {
		if err := Validate(nil); err == nil {
			t.Fatal("expected an error for empty bytecode")
		}
	})

	t.Run("unknown opcode is rejected", func(t *testing.T) {
		if err := Validate([]byte{0xAB, byte(Ret)}); err == nil {
			t.Fatal("expected an error for an unknown opcode")
		}
	})

	t.Run("truncated operand is rejected", func(t *testing.T) {
		if err := Validate([]byte{byte(PushInt), 0x01}); err == nil {
			t.Fatal("expected an error for a truncated operand")
		}
	})

	t.Run("Ret must be the final byte", func(t *testing.T) {
		code := []byte{byte(Ret), byte(Noop)}
		if err := Validate(code); err == nil {
			t.Fatal("expected an error when Ret is not final")
		}
	})

	t.Run("missing terminating Ret is rejected", func(t *testing.T) {
		code := []byte{byte(PushInt), 0, 0, 0, 1}
		if err := Validate(code); err == nil {
			t.Fatal("expected an error for a stream with no Ret")
		}
	})

	t.Run("well-formed bytecode passes", func(t *testing.T) {
		code := []byte{byte(PushInt), 1, 0, 0, 0, byte(Ret)}
		if err := Validate(code); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("MergeField carries zero operand bytes", func(t *testing.T) {
		code := []byte{byte(MergeField), byte(Ret)}
		if err := Validate(code); err != nil {
			t.Fatalf("unexpected error for MergeField: %v", err)
		}
	})
}
