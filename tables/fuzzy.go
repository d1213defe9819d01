package tables

import (
	"fmt"
	"strings"
	"unicode"

	"savedit/types"
)

// How well a typed name matches a field name, best first.
type match_level int

const (
	match_exact match_level = iota
	match_fold
	match_loose
	match_prefix
	match_substring
	no_match
)

// loose_key upper-cases and turns everything that is awkward to type on a command line into '_'
func loose_key(name string) string {
	return strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return unicode.ToUpper(c)
		}
		return '_'
	}, name)
}

func level_of(input, name string) match_level {
	switch {
	case input == name:
		return match_exact
	case strings.EqualFold(input, name):
		return match_fold
	}
	in, key := loose_key(input), loose_key(name)
	switch {
	case in == key:
		return match_loose
	case strings.HasPrefix(key, in):
		return match_prefix
	case strings.Contains(key, in):
		return match_substring
	}
	return no_match
}

// match_field finds the field whose name input matches at the best level.
// More than one field at that level is an error.
func match_field(fields []types.FieldSpec, input string, where string) (types.FieldSpec, error) {
	best := no_match
	var found []types.FieldSpec
	for _, f := range fields {
		lvl := level_of(input, f.Name)
		if lvl == no_match || lvl > best {
			continue
		}
		if lvl < best {
			best = lvl
			found = found[:0]
		}
		found = append(found, f)
	}

	switch len(found) {
	case 0:
		return types.FieldSpec{}, fmt.Errorf("%w: %q could not be matched to a field in %v", types.ErrUnknownField, input, where)
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	return types.FieldSpec{}, fmt.Errorf("%w: ambiguous argument %q could be any of {%v}", types.ErrUnknownField, input, strings.Join(names, ", "))
}
