package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

// unit matches a whole source file: an implementation module or a
// definition (".def") module.
func unit() parsec.Parser[ast.Section] {
	return parsec.Either(
		parsec.Map(module(), func(m *ast.Module) ast.Section { return m }),
		parsec.Map(definitionModule(), func(d *ast.DefinitionModule) ast.Section { return d }),
	)
}

var built parsec.Parser[ast.Section]

// Build links the cyclic Expression and Type productions and returns the
// top-level parser for one source file. It is idempotent: later calls
// return the already-linked parser without relinking (Ref.Link panics on a
// second call).
func Build() parsec.Parser[ast.Section] {
	if built == nil {
		exprRef.Link(expression())
		typeRef.Link(typeProduction())
		built = unit()
	}
	return built
}

// ParseFile parses the full contents of one source file (an implementation
// module or a ".def" definition module) and requires it to consume the
// entire input.
func ParseFile(file, src string) parsec.Result[ast.Section] {
	c := parsec.NewCursor(file, src)
	whitespace(c)
	return parsec.Parse(c, Build())
}
