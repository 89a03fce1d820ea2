// Package dsl parses figure description files (*.figure).
package dsl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var documentParser = participle.MustBuild[Document](
	participle.Lexer(figureLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseError 是带位置的语法错误。
type ParseError struct {
	Pos lexer.Position
	Msg string
}

func (e *ParseError) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	if e.Pos.Filename == "" {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parse parses a figure description from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return parse("", r)
}

// ParseString parses a figure description from a string.
func ParseString(input string) (*Document, error) {
	doc, err := documentParser.ParseString("", input)
	return doc, positioned(err)
}

// ParseFile 读取并解析 path，错误信息中带文件名与行列号。
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(path, f)
}

func parse(name string, r io.Reader) (*Document, error) {
	doc, err := documentParser.Parse(name, r)
	return doc, positioned(err)
}

func positioned(err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	var perr participle.Error
	if errors.As(err, &perr) {
		return &ParseError{Pos: perr.Position(), Msg: perr.Message()}
	}
	return err
}

func unquote(raw string) (string, error) {
	s, err := strconv.Unquote(raw)
	if err != nil {
		return "", fmt.Errorf("invalid string %s: %w", raw, err)
	}
	return s, nil
}
