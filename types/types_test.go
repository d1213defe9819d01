package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func Test_Overlaps(t *testing.T) {
	a := FieldSpec{Offset: 0, Length: 7}
	require.True(t, a.Overlaps(FieldSpec{Offset: 6, Length: 1}))
	require.True(t, a.Overlaps(FieldSpec{Offset: 2, Length: 2}))
	require.True(t, FieldSpec{Offset: 2, Length: 2}.Overlaps(a))
	require.False(t, a.Overlaps(FieldSpec{Offset: 7, Length: 4}))
	require.False(t, FieldSpec{Offset: 7, Length: 4}.Overlaps(a))
	require.Equal(t, 7, a.End())
}

func Test_Validate(t *testing.T) {
	require.NoError(t, FieldSpec{Offset: 0, Length: 7}.Validate())
	require.ErrorIs(t, FieldSpec{Offset: -1, Length: 7}.Validate(), ErrInvalidSpec)
	require.ErrorIs(t, FieldSpec{Offset: 0, Length: 0}.Validate(), ErrInvalidSpec)
	require.ErrorIs(t, FieldSpec{Offset: 0, Length: 1, Encoding: "klingon"}.Validate(), ErrUnknownEncoding)
}

func Test_LookupEncoding(t *testing.T) {
	for name, want := range map[string]any{
		"":             charmap.ISO8859_1,
		"latin1":       charmap.ISO8859_1,
		" Latin1 ":     charmap.ISO8859_1,
		"ISO-8859-1":   charmap.ISO8859_1,
		"windows-1252": charmap.Windows1252,
		"CP437":        charmap.CodePage437,
		"UTF-8":        unicode.UTF8,
	} {
		enc, err := LookupEncoding(name)
		require.NoError(t, err, name)
		require.Equal(t, want, enc, name)
	}

	// Anything else comes from the IANA registry
	enc, err := LookupEncoding("ISO-8859-15")
	require.NoError(t, err)
	require.Equal(t, charmap.ISO8859_15, enc)

	_, err = LookupEncoding("klingon")
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func Test_String(t *testing.T) {
	spec := FieldSpec{Name: "trainer_name", Offset: 0, Length: 7}
	require.Equal(t, "field trainer_name: 0x0000-0x0006 (7 bytes, latin1, pad 0x00)", spec.String())
}
