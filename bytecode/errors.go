package bytecode

import "fmt"

// UnresolvedRefError reports a named predicate reference still present at
// compile time; the lowerer is responsible for resolving every Ref before
// handing expressions to this package.
type UnresolvedRefError struct {
	Name string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("bytecode: unresolved predicate reference %q", e.Name)
}

// UnknownFunctionError reports a Fn expression whose name matched none of
// the documented built-ins or their synonyms.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("bytecode: unknown function %q", e.Name)
}

// TooLongError reports a compiled predicate exceeding MaxBytecodeLength.
type TooLongError struct {
	Length int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("bytecode: compiled predicate is %d bytes, exceeds the %d-byte limit", e.Length, MaxBytecodeLength)
}

// ValidationError reports a malformed instruction stream.
type ValidationError struct {
	Offset  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bytecode: offset %d: %s", e.Offset, e.Message)
}
