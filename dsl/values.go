package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Assignments indexes the block's `key: value` statements. Later keys win.
func (b *Block) Assignments() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[st.Assignment.Key] = st.Assignment.Value
		}
	}
	return out
}

// Commands returns the block's commands with the given name, in source order.
func (b *Block) Commands(name string) []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil && st.Command.Name == name {
			out = append(out, st.Command)
		}
	}
	return out
}

// Arg returns the value of the i-th argument or "" when absent.
func (c *Command) Arg(i int) string {
	if c == nil || i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i].Value
}

// Text renders a scalar value as written: strings unquoted, bare words joined,
// bindings kept as `${...}` for the caller to interpolate.
func (v *Value) Text() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Number != nil:
		return *v.Number, true
	case v.Color != nil:
		return *v.Color, true
	case v.Binding != nil:
		return *v.Binding, true
	case v.Word != nil:
		return v.Word.String(), true
	default:
		return "", false
	}
}

// Float parses a numeric value. expand, when non-nil, rewrites the text first
// (used to resolve `${...}` bindings). Unit suffixes are rejected.
func (v *Value) Float(expand func(string) string) (float64, error) {
	s, ok := v.Text()
	if !ok {
		return 0, fmt.Errorf("expected number")
	}
	if expand != nil {
		s = expand(s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", s)
	}
	return f, nil
}

// List returns array elements; a scalar is treated as a one-element list.
func (v *Value) List() []*Value {
	switch {
	case v == nil:
		return nil
	case v.Array != nil:
		return v.Array.Values
	default:
		return []*Value{v}
	}
}

// Floats parses every element of an array value as a number.
func (v *Value) Floats(expand func(string) string) ([]float64, error) {
	items := v.List()
	out := make([]float64, 0, len(items))
	for i, item := range items {
		f, err := item.Float(expand)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Strings renders every element of an array value as text.
func (v *Value) Strings() []string {
	items := v.List()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.Text(); ok {
			out = append(out, s)
		}
	}
	return out
}

// String joins the parts; `a.b` stays glued, separate words get one space.
func (w *Word) String() string {
	var b strings.Builder
	for i, p := range w.Parts {
		if i > 0 && p.Value != "." && w.Parts[i-1].Value != "." {
			b.WriteByte(' ')
		}
		b.WriteString(p.Value)
	}
	return b.String()
}
