package bytecode

// Validate walks a compiled predicate's bytecode, independent of the
// compiler, confirming every byte decodes to a known opcode, every
// operand-carrying instruction has enough trailing bytes, and the stream
// ends with a bare Ret.
func Validate(code []byte) error {
	if len(code) == 0 {
		return &ValidationError{Offset: 0, Message: "empty bytecode"}
	}

	i := 0
	for i < len(code) {
		op := Op(code[i])
		width := operandWidth(op)
		if width < 0 {
			return &ValidationError{Offset: i, Message: "unknown opcode"}
		}
		if i+1+width > len(code) {
			return &ValidationError{Offset: i, Message: "truncated operand"}
		}
		if op == Ret {
			if i+1 != len(code) {
				return &ValidationError{Offset: i, Message: "Ret is not the final byte"}
			}
			return nil
		}
		i += 1 + width
	}

	return &ValidationError{Offset: len(code), Message: "missing terminating Ret"}
}
