package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/omarflow/pxyzc/ir"
)

var mnemonics = map[Op]string{
	Noop: "Noop", PushInt: "PushInt", PushStr: "PushStr", LoadVar: "LoadVar", LoadField: "LoadField",
	Eq: "Eq", Neq: "Neq", Gt: "Gt", Gte: "Gte", Lt: "Lt", Lte: "Lte",
	And: "And", Or: "Or", Not: "Not",
	Contains: "Contains", Matches: "Matches", StartsWith: "StartsWith", EndsWith: "EndsWith",
	Len: "Len", Get: "Get", IsNull: "IsNull", IsDefined: "IsDefined", IsConfirmed: "IsConfirmed",
	Timestamp: "Timestamp", IsFlagged: "IsFlagged", Origin: "Origin", VClockGt: "VClockGt", MergeField: "MergeField",
	CallPred: "CallPred", Ret: "Ret",
}

// Disassemble renders a compiled predicate's bytecode as one
// human-readable line per instruction, for audit reports and debugging.
// An opcode it does not recognize is rendered as "??? (0xNN)" and the
// cursor still advances by a single byte so the rest of the stream stays
// interpretable, matching the frozen disassembler's own recovery
// behavior.
func Disassemble(code []byte, pool *ir.StringPool) string {
	var out strings.Builder
	i := 0
	for i < len(code) {
		op := Op(code[i])
		name, known := mnemonics[op]
		if !known {
			fmt.Fprintf(&out, "%04d: ??? (0x%02X)\n", i, code[i])
			i++
			continue
		}

		width := operandWidth(op)
		if i+1+width > len(code) {
			fmt.Fprintf(&out, "%04d: %s <truncated>\n", i, name)
			break
		}

		switch width {
		case 0:
			fmt.Fprintf(&out, "%04d: %s\n", i, name)
		case 2:
			v := binary.LittleEndian.Uint16(code[i+1 : i+3])
			fmt.Fprintf(&out, "%04d: %s %d\n", i, name, v)
		case 4:
			switch op {
			case PushInt:
				v := int32(binary.LittleEndian.Uint32(code[i+1 : i+5]))
				fmt.Fprintf(&out, "%04d: %s %d\n", i, name, v)
			case PushStr, LoadVar, LoadField:
				off := binary.LittleEndian.Uint32(code[i+1 : i+5])
				s, ok := pool.Lookup(off)
				if !ok {
					fmt.Fprintf(&out, "%04d: %s @%d <unresolved>\n", i, name, off)
				} else {
					fmt.Fprintf(&out, "%04d: %s %q\n", i, name, s)
				}
			default:
				v := binary.LittleEndian.Uint32(code[i+1 : i+5])
				fmt.Fprintf(&out, "%04d: %s %d\n", i, name, v)
			}
		}

		i += 1 + width
	}
	return out.String()
}
