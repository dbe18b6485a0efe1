package main

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// miniLangLexer defines the lexical rules for MiniLang: arithmetic,
// comparisons, booleans, let-bindings, if/then/else, and fn lambdas.
var miniLangLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: "#[^\\n]*"},
	{Name: "LetKw", Pattern: `let`},
	{Name: "InKw", Pattern: `in`},
	{Name: "IfKw", Pattern: `if`},
	{Name: "ThenKw", Pattern: `then`},
	{Name: "ElseKw", Pattern: `else`},
	{Name: "FnKw", Pattern: `fn`},
	{Name: "True", Pattern: `true`},
	{Name: "False", Pattern: `false`},
	{Name: "LogicalAnd", Pattern: `&&`},
	{Name: "LogicalOr", Pattern: `\|\|`},
	{Name: "Arrow", Pattern: `=>`},
	{Name: "Eq", Pattern: `==`},
	{Name: "Assign", Pattern: `=`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"])*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Operator", Pattern: `[+\-*/><]`},
	{Name: "Punct", Pattern: `[,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var miniLangParser = participle.MustBuild[Program](
	participle.Lexer(miniLangLexer),
	participle.Elide("Whitespace", "Comment"),
)

// parseSource parses a string of MiniLang code into a Program AST.
func parseSource(code string) (*Program, error) {
	return miniLangParser.ParseString("", code)
}
