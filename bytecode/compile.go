package bytecode

import (
	"encoding/binary"
	"strings"

	"github.com/omarflow/pxyzc/dsl"
	"github.com/omarflow/pxyzc/ir"
)

var relOp = map[dsl.PredicateExprKind]Op{
	dsl.ExprEq:  Eq,
	dsl.ExprNeq: Neq,
	dsl.ExprGt:  Gt,
	dsl.ExprGte: Gte,
	dsl.ExprLt:  Lt,
	dsl.ExprLte: Lte,
}

// Compile translates a single predicate expression tree into its
// bytecode body, terminated with Ret, failing if the result would exceed
// MaxBytecodeLength.
func Compile(expr dsl.PredicateExpr, pool *ir.StringPool) ([]byte, error) {
	body, err := compileExpr(expr, pool)
	if err != nil {
		return nil, err
	}
	body = append(body, byte(Ret))
	if len(body) > MaxBytecodeLength {
		return nil, &TooLongError{Length: len(body)}
	}
	return body, nil
}

func compileExpr(expr dsl.PredicateExpr, pool *ir.StringPool) ([]byte, error) {
	switch expr.Kind {
	case dsl.ExprAlways:
		return pushInt(1), nil
	case dsl.ExprFail:
		return pushInt(0), nil

	case dsl.ExprEq, dsl.ExprNeq, dsl.ExprGt, dsl.ExprGte, dsl.ExprLt, dsl.ExprLte:
		left, err := compileOperand(expr.Left, pool)
		if err != nil {
			return nil, err
		}
		right, err := compileValue(expr.Right, pool)
		if err != nil {
			return nil, err
		}
		out := append(left, right...)
		out = append(out, byte(relOp[expr.Kind]))
		return out, nil

	case dsl.ExprContains:
		left, err := compileOperand(expr.Left, pool)
		if err != nil {
			return nil, err
		}
		right, err := compileOperand(expr.ContainsRight, pool)
		if err != nil {
			return nil, err
		}
		out := append(left, right...)
		out = append(out, byte(Contains))
		return out, nil

	case dsl.ExprMatches:
		left, err := compileOperand(expr.Left, pool)
		if err != nil {
			return nil, err
		}
		lit, err := pushStrLiteral(expr.Pattern, pool)
		if err != nil {
			return nil, err
		}
		out := append(left, lit...)
		out = append(out, byte(Matches))
		return out, nil

	case dsl.ExprStartsWith:
		left, err := compileOperand(expr.Left, pool)
		if err != nil {
			return nil, err
		}
		lit, err := pushStrLiteral(expr.Prefix, pool)
		if err != nil {
			return nil, err
		}
		out := append(left, lit...)
		out = append(out, byte(StartsWith))
		return out, nil

	case dsl.ExprEndsWith:
		left, err := compileOperand(expr.Left, pool)
		if err != nil {
			return nil, err
		}
		lit, err := pushStrLiteral(expr.Suffix, pool)
		if err != nil {
			return nil, err
		}
		out := append(left, lit...)
		out = append(out, byte(EndsWith))
		return out, nil

	case dsl.ExprAnd:
		if len(expr.Conditions) == 0 {
			return pushInt(1), nil
		}
		out, err := compileExpr(expr.Conditions[0], pool)
		if err != nil {
			return nil, err
		}
		for _, cond := range expr.Conditions[1:] {
			b, err := compileExpr(cond, pool)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
			out = append(out, byte(And))
		}
		return out, nil

	case dsl.ExprOr:
		if len(expr.Conditions) == 0 {
			return pushInt(0), nil
		}
		out, err := compileExpr(expr.Conditions[0], pool)
		if err != nil {
			return nil, err
		}
		for _, cond := range expr.Conditions[1:] {
			b, err := compileExpr(cond, pool)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
			out = append(out, byte(Or))
		}
		return out, nil

	case dsl.ExprNot:
		inner, err := compileExpr(*expr.Condition, pool)
		if err != nil {
			return nil, err
		}
		return append(inner, byte(Not)), nil

	case dsl.ExprFn:
		arg, err := compileOperand(expr.FnArg, pool)
		if err != nil {
			return nil, err
		}
		op, ok := fnOpcode(expr.FnName)
		if !ok {
			return nil, &UnknownFunctionError{Name: expr.FnName}
		}
		return append(arg, byte(op)), nil

	case dsl.ExprRef:
		return nil, &UnresolvedRefError{Name: expr.Predicate}

	default:
		return pushInt(1), nil
	}
}

func fnOpcode(name string) (Op, bool) {
	switch strings.ToLower(name) {
	case "length", "len":
		return Len, true
	case "defined", "isdefined", "is_defined":
		return IsDefined, true
	case "null", "isnull", "is_null":
		return IsNull, true
	case "confirmed", "isconfirmed", "is_confirmed":
		return IsConfirmed, true
	default:
		return 0, false
	}
}

// compileOperand dispatches a raw variable-or-literal string (an edge's
// left-hand side, or either side of a Contains test) through ParseValue
// and then through compileValue, exactly as the operand encoding rules
// describe.
func compileOperand(raw string, pool *ir.StringPool) ([]byte, error) {
	return compileValue(dsl.ParseValue(raw), pool)
}

func compileValue(v dsl.Value, pool *ir.StringPool) ([]byte, error) {
	switch v.Kind {
	case dsl.ValueVar:
		path := strings.TrimPrefix(v.Var, "$")
		off, err := pool.Intern(path)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(LoadVar)}, u32le(off)...), nil
	case dsl.ValueStr:
		return pushStrLiteral(v.Str, pool)
	case dsl.ValueInt:
		return pushInt(int32(v.Int)), nil
	case dsl.ValueFloat:
		return pushInt(int32(v.Float)), nil
	case dsl.ValueBool:
		if v.Bool {
			return pushInt(1), nil
		}
		return pushInt(0), nil
	default:
		return pushInt(0), nil
	}
}

func pushStrLiteral(s string, pool *ir.StringPool) ([]byte, error) {
	off, err := pool.Intern(s)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(PushStr)}, u32le(off)...), nil
}

func pushInt(v int32) []byte {
	out := make([]byte, 5)
	out[0] = byte(PushInt)
	binary.LittleEndian.PutUint32(out[1:], uint32(v))
	return out
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
