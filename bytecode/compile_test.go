package bytecode

import (
	"testing"

	"github.com/omarflow/pxyzc/dsl"
	"github.com/omarflow/pxyzc/ir"
)

func TestCompile(t *testing.T) {
	t.Run("always emits PushInt 1 then Ret", func(t *testing.T) {
		pool := ir.NewStringPool()
		code, err := Compile(dsl.PredicateExpr{Kind: dsl.ExprAlways}, pool)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if err := Validate(code); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if Op(code[0]) != PushInt || Op(code[len(code)-1]) != Ret {
			t.Errorf("unexpected bytecode shape: % x", code)
		}
	})

	t.Run("eq comparison compiles LoadVar, PushStr, Eq, Ret", func(t *testing.T) {
		pool := ir.NewStringPool()
		expr := dsl.PredicateExpr{Kind: dsl.ExprEq, Left: "$role", Right: dsl.ParseValue("admin")}
		code, err := Compile(expr, pool)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if err := Validate(code); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if Op(code[0]) != LoadVar {
			t.Errorf("expected LoadVar first, got 0x%02X", code[0])
		}
		if Op(code[len(code)-2]) != Eq {
			t.Errorf("expected Eq as the second-to-last byte, got 0x%02X", code[len(code)-2])
		}
	})

	t.Run("matches emits a separate PushStr before the bare opcode", func(t *testing.T) {
		pool := ir.NewStringPool()
		expr := dsl.PredicateExpr{Kind: dsl.ExprMatches, Left: "$name", Pattern: "^a.*z$"}
		code, err := Compile(expr, pool)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if err := Validate(code); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		// LoadVar(5) + PushStr(5) + Matches(1) + Ret(1) = 12 bytes.
		if len(code) != 12 {
			t.Fatalf("expected 12-byte bytecode, got %d: % x", len(code), code)
		}
		if Op(code[5]) != PushStr {
			t.Errorf("expected PushStr at offset 5, got 0x%02X", code[5])
		}
		if Op(code[10]) != Matches {
			t.Errorf("expected Matches at offset 10, got 0x%02X", code[10])
		}
	})

	t.Run("startsWith emits a separate PushStr before the bare opcode", func(t *testing.T) {
		pool := ir.NewStringPool()
		expr := dsl.PredicateExpr{Kind: dsl.ExprStartsWith, Left: "$name", Prefix: "foo"}
		code, err := Compile(expr, pool)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		// LoadVar(5) + PushStr(5) + StartsWith(1) + Ret(1) = 12 bytes.
		if len(code) != 12 {
			t.Fatalf("expected 12-byte bytecode, got %d: % x", len(code), code)
		}
		if Op(code[5]) != PushStr {
			t.Errorf("expected PushStr at offset 5, got 0x%02X", code[5])
		}
		if Op(code[10]) != StartsWith {
			t.Errorf("expected StartsWith at offset 10, got 0x%02X", code[10])
		}
	})

	t.Run("and/or/not chain compiles and validates", func(t *testing.T) {
		pool := ir.NewStringPool()
		inner := dsl.PredicateExpr{Kind: dsl.ExprEq, Left: "$a", Right: dsl.ParseValue("1")}
		expr := dsl.PredicateExpr{
			Kind: dsl.ExprAnd,
			Conditions: []dsl.PredicateExpr{
				inner,
				{Kind: dsl.ExprNot, Condition: &inner},
			},
		}
		code, err := Compile(expr, pool)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if err := Validate(code); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("unresolved ref fails to compile", func(t *testing.T) {
		pool := ir.NewStringPool()
		_, err := Compile(dsl.PredicateExpr{Kind: dsl.ExprRef, Predicate: "foo"}, pool)
		if err == nil {
			t.Fatal("expected an error for an unresolved ref expression")
		}
	})

	t.Run("unknown function name fails to compile", func(t *testing.T) {
		pool := ir.NewStringPool()
		_, err := Compile(dsl.PredicateExpr{Kind: dsl.ExprFn, FnName: "bogus", FnArg: "$x"}, pool)
		if err == nil {
			t.Fatal("expected an error for an unknown function name")
		}
	})
}
