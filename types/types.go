package types

import (
	"fmt"
)

// Default values for the optional parts of a field.
const (
	DefaultEncoding = "latin1"
	DefaultPad      = byte(0x00)
)

// FieldSpec describes a fixed-width text field inside a save buffer.
// The zero Pad is a NUL byte, which is what almost every format uses.
type FieldSpec struct {
	Name     string
	Offset   int
	Length   int
	Encoding string
	Pad      byte
}

// End returns the index of the byte one after the end of the field.
func (fs FieldSpec) End() int {
	return fs.Offset + fs.Length
}

// Overlaps reports whether fs and other claim at least one common byte.
func (fs FieldSpec) Overlaps(other FieldSpec) bool {
	return fs.Offset < other.End() && other.Offset < fs.End()
}

// Validate checks that the spec addresses a real range and names a known encoding.
// It does not know how big the buffer is, so bounds are left to the store.
func (fs FieldSpec) Validate() error {
	if fs.Offset < 0 {
		return fmt.Errorf("%w: %v has negative offset %v", ErrInvalidSpec, fs.label(), fs.Offset)
	}
	if fs.Length <= 0 {
		return fmt.Errorf("%w: %v has length %v (must be at least 1)", ErrInvalidSpec, fs.label(), fs.Length)
	}
	_, err := LookupEncoding(fs.Encoding)
	return err
}

func (fs FieldSpec) label() string {
	if fs.Name == "" {
		return "field"
	}
	return "field " + fs.Name
}

func (fs FieldSpec) String() string {
	enc := fs.Encoding
	if enc == "" {
		enc = DefaultEncoding
	}
	return fmt.Sprintf("%v: 0x%04x-0x%04x (%v bytes, %v, pad 0x%02x)", fs.label(), fs.Offset, fs.End()-1, fs.Length, enc, fs.Pad)
}
