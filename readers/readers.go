package readers

// Functions for getting text out of a save buffer.
//
// Text fields are fixed-length slots.  Whatever is not used by the text itself
// is filled with a pad byte (almost always 0), which is stripped on the way out.

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"savedit/buffer"
	"savedit/types"
)

func decode_with(enc encoding.Encoding, raw []byte) string {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		// The x/text decoders we register never get here, but IANA ones might.
		return string(bytes.ToValidUTF8(raw, []byte("\uFFFD")))
	}
	return string(out)
}

// pad_runes is what runs of the pad byte decode to.  In a single-byte encoding
// that is one character; in UTF-16 it is a two-byte character, plus U+FFFD for
// an odd byte left over at the end of the field.
func pad_runes(enc encoding.Encoding, pad byte) map[rune]bool {
	out := map[rune]bool{}
	for n := 1; n <= 4; n++ {
		for _, r := range decode_with(enc, bytes.Repeat([]byte{pad}, n)) {
			out[r] = true
		}
	}
	return out
}

// trim_pad strips trailing pad characters.  Pad characters in the middle of a field are kept.
func trim_pad(str string, pad map[rune]bool) string {
	end := len(str)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(str[:end])
		if !pad[r] {
			break
		}
		end -= size
	}
	return str[:end]
}

// Decode turns the raw bytes of a field into a display string.
// The whole field is decoded first and the padding stripped afterwards, so a
// pad byte can never eat part of a wider character.
// Decoding is permissive: bytes that mean nothing in the field's encoding come out as U+FFFD.
func Decode(raw []byte, spec types.FieldSpec) (string, error) {
	enc, err := types.LookupEncoding(spec.Encoding)
	if err != nil {
		return "", err
	}

	return trim_pad(decode_with(enc, raw), pad_runes(enc, spec.Pad)), nil
}

// ReadTextField reads and decodes the field described by spec.
func ReadTextField(buf *buffer.Buffer, spec types.FieldSpec) (string, error) {
	raw, err := buf.ReadRange(spec.Offset, spec.Length)
	if err != nil {
		return "", err
	}
	return Decode(raw, spec)
}

// DecodeTextField is ReadTextField for callers that just want something to show.
// It never fails; a field that can't be read at all comes back as "".
func DecodeTextField(buf *buffer.Buffer, spec types.FieldSpec) string {
	str, err := ReadTextField(buf, spec)
	if err != nil {
		return ""
	}
	return str
}
