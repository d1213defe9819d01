package tables

// Field layouts.
//
// A layout is a named list of text fields in a save file.  Exactly one layout
// is built in, and it is a placeholder: real formats supply their own offsets in
// an ini file (see config.go).

import (
	"fmt"
	"strings"

	"savedit/types"
)

const DefaultLayout = "default"

type Layout struct {
	Name   string
	fields []types.FieldSpec
}

// Default returns the built-in layout: a 7 byte latin1 name at the very start of the file.
func Default() *Layout {
	return &Layout{
		Name: DefaultLayout,
		fields: []types.FieldSpec{
			{Name: "trainer_name", Offset: 0x0000, Length: 7, Encoding: "latin1", Pad: 0x00},
		},
	}
}

// NewLayout builds a layout after checking every field and making sure no two of them share a byte.
func NewLayout(name string, fields ...types.FieldSpec) (*Layout, error) {
	seen := map[string]bool{}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: layout %v field %v has no name", types.ErrInvalidSpec, name, i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: layout %v has field %v twice", types.ErrInvalidSpec, name, f.Name)
		}
		seen[f.Name] = true

		err := f.Validate()
		if err != nil {
			return nil, fmt.Errorf("layout %v: %w", name, err)
		}
		for _, other := range fields[:i] {
			if f.Overlaps(other) {
				return nil, fmt.Errorf("%w: layout %v fields %v and %v", types.ErrOverlap, name, other, f)
			}
		}
	}

	return &Layout{Name: name, fields: append([]types.FieldSpec{}, fields...)}, nil
}

// Fields returns the layout's fields in declaration order.
func (l *Layout) Fields() []types.FieldSpec {
	return append([]types.FieldSpec{}, l.fields...)
}

func (l *Layout) Names() []string {
	out := make([]string, 0, len(l.fields))
	for _, f := range l.fields {
		out = append(out, f.Name)
	}
	return out
}

// Field looks a field up by its exact name.
func (l *Layout) Field(name string) (types.FieldSpec, error) {
	for _, f := range l.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return types.FieldSpec{}, fmt.Errorf("%w: %v is not in layout %v (fields are: %v)", types.ErrUnknownField, name, l.Name, strings.Join(l.Names(), ", "))
}

// Match looks a field up by a possibly sloppy name, e.g. "trainer" for "trainer_name".
func (l *Layout) Match(input string) (types.FieldSpec, error) {
	return match_field(l.fields, input, "layout "+l.Name)
}

// MinSize is the smallest buffer every field of the layout fits in.
func (l *Layout) MinSize() int {
	size := 0
	for _, f := range l.fields {
		size = max(size, f.End())
	}
	return size
}
