package parser

import "github.com/plsweave/plsweave/pkg/token"

// File-form keywords. These are not reserved Oracle words, so they are
// registered dynamically and only recognized while the lexer is in
// ModeForm; inside PL/SQL bodies the same spellings remain identifiers.
var (
	kwLayer             = token.Register("layer")
	kwComponent         = token.Register("component")
	kwEntityname        = token.Register("entityname")
	kwEnumerationname   = token.Register("enumerationname")
	kwAttributes        = token.Register("attributes")
	kwKeys              = token.Register("keys")
	kwReferences        = token.Register("references")
	kwCodegenproperties = token.Register("codegenproperties")
	kwColumn            = token.Register("column")
	kwView              = token.Register("view")
	kwTable             = token.Register("table")
	kwIndex             = token.Register("index")
	kwUnique            = token.Register("unique")
	kwSequence          = token.Register("sequence")
)
