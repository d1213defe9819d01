package writers

// Functions for putting text into a save buffer.

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"

	"savedit/buffer"
	"savedit/types"
)

// EncodeFixed encodes text into exactly spec.Length bytes.
//
// Characters the encoding can't represent become its substitute byte.
// Too-long text is cut off after encoding, byte by byte, which can split a
// multi-byte character in half.  Short text is padded out with spec.Pad.
// spec.Offset is not looked at; where the bytes go is WriteRange's problem.
func EncodeFixed(spec types.FieldSpec, text string) ([]byte, error) {
	if spec.Length <= 0 {
		return nil, fmt.Errorf("%w: field length %v (must be at least 1)", types.ErrInvalidSpec, spec.Length)
	}
	enc, err := types.LookupEncoding(spec.Encoding)
	if err != nil {
		return nil, err
	}

	encoder := encoding.ReplaceUnsupported(enc.NewEncoder())
	encoded, err := encoder.Bytes([]byte(strings.ToValidUTF8(text, "\uFFFD")))
	if err != nil {
		return nil, fmt.Errorf("%w: can't encode %q as %v: %w", types.ErrInvalidSpec, text, spec.Encoding, err)
	}

	out := make([]byte, spec.Length)
	n := copy(out, encoded)
	for i := n; i < len(out); i++ {
		out[i] = spec.Pad
	}

	return out, nil
}

// EncodeTextField writes text into the field described by spec.
// The whole field is always rewritten, so old text never shows through past the new text.
func EncodeTextField(buf *buffer.Buffer, spec types.FieldSpec, text string) error {
	fixed, err := EncodeFixed(spec, text)
	if err != nil {
		return err
	}
	return buf.WriteRange(spec.Offset, spec.Length, fixed)
}
