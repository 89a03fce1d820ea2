package dsl

import "github.com/alecthomas/participle/v2/lexer"

// Document is the root of a figure description file:
//
//	figure Figure2 v1 {
//	  meta { ... }
//	  resources { ... }
//	  plot 8in 6in dpi 300 { ... }
//	}
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'figure' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one top-level section.
type Section struct {
	Meta      *Block       `parser:"  'meta' @@"`
	Resources *Block       `parser:"| 'resources' @@"`
	Plot      *PlotSection `parser:"| @@"`
}

// Kind returns the section keyword.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Plot != nil:
		return "plot"
	default:
		return "unknown"
	}
}

// PlotSection holds the size header (`8in 6in dpi 300`) and the plot body.
type PlotSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Lexeme      `parser:"'plot' @@*"`
	Block  *Block         `parser:"@@"`
}

// Block is a braced list of statements separated by newlines or semicolons.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is either `key: value` or a declaration such as `axis x { ... }`.
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a declaration with positional arguments and an optional block,
// eg. `series "Low" { ... }` or `color DimGray = #696969`.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Value is a property value.
type Value struct {
	String  *StringLiteral `parser:"  @String"`
	Number  *string        `parser:"| @Number"`
	Color   *string        `parser:"| @Color"`
	Binding *string        `parser:"| @Binding"`
	Array   *ArrayValue    `parser:"| @@"`
	Word    *Word          `parser:"| @@"`
}

// ArrayValue captures `[a, b]`; elements may also be separated by newlines.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? ','? Newline* ']'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return &ParseError{Msg: "string literal capture requires value"}
	}
	val, err := unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}
