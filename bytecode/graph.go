package bytecode

import (
	"fmt"

	"github.com/omarflow/pxyzc/dsl"
	"github.com/omarflow/pxyzc/ir"
)

// CompileAll fills in the Bytecode field of every predicate in g whose id
// appears in pending, which is the lowerer's table of predicate ids that
// still need their expression compiled. Predicate id 0 (the implicit
// always-true predicate) never appears in pending and is never touched.
func CompileAll(g *ir.Graph, pending map[uint16]dsl.PredicateExpr) error {
	for i := range g.Predicates {
		expr, ok := pending[g.Predicates[i].ID]
		if !ok {
			continue
		}
		body, err := Compile(expr, g.Strings)
		if err != nil {
			return fmt.Errorf("predicate %q (id %d): %w", g.Predicates[i].Name, g.Predicates[i].ID, err)
		}
		g.Predicates[i].Bytecode = body
	}
	return nil
}
