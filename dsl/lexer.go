package dsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// figureLexer 切分图表描述文件。
// Binding 将 `${path|default}` 整体识别为一个记号，数值位置也可以直接引用 --data。
// Number 自带正负号与长度单位（8in、10pt、-0.1）。
var figureLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "Comment", Pattern: `//[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "Binding", Pattern: `\$\{[^}\n]*\}`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[][(),.=;:]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

var (
	tokenNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range figureLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()

	newlineToken = tokenType("Newline")
	lbraceToken  = tokenType("LBrace")
	rbraceToken  = tokenType("RBrace")
	punctToken   = tokenType("Punct")
	identToken   = tokenType("Ident")
	stringToken  = tokenType("String")
)

func tokenType(name string) lexer.TokenType {
	tt, ok := figureLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("dsl: token %s not defined", name))
	}
	return tt
}

// Lexeme 是一个原样保留的记号，用于命令参数与裸词。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"` // 字符串已去掉引号
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable: one token up to the end of the statement.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endsArgs(lex.Peek()) {
		return participle.NextMatch
	}
	next, err := nextLexeme(lex)
	if err != nil {
		return err
	}
	*l = next
	return nil
}

// Word 是由标识符与点号组成的裸词，例如 dotted、upper-left、data.meta.outcome。
type Word struct {
	Parts []*Lexeme
}

// Parse implements participle.Parseable.
func (w *Word) Parse(lex *lexer.PeekingLexer) error {
	var parts []*Lexeme
	for {
		tok := lex.Peek()
		if tok.EOF() || !(tok.Type == identToken || (tok.Type == punctToken && tok.Value == ".")) {
			break
		}
		next, err := nextLexeme(lex)
		if err != nil {
			return err
		}
		parts = append(parts, &next)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	w.Parts = parts
	return nil
}

// endsArgs 判断命令参数是否到此为止：换行、花括号或分号。
func endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineToken, lbraceToken, rbraceToken:
		return true
	case punctToken:
		return tok.Value == ";"
	}
	return false
}

func nextLexeme(lex *lexer.PeekingLexer) (Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return Lexeme{}, participle.NextMatch
	}
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringToken {
		var err error
		if val, err = unquote(tok.Value); err != nil {
			return Lexeme{}, &ParseError{Pos: tok.Pos, Msg: err.Error()}
		}
	}
	return Lexeme{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}, nil
}
