// Package editor ties a loaded save file to a layout of named text fields.
//
// A Session owns exactly one buffer for its whole life.  It is not safe for
// concurrent use, and nothing else should hold on to its buffer.
package editor

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"savedit/buffer"
	"savedit/readers"
	"savedit/tables"
	"savedit/types"
	"savedit/writers"
)

type Options struct {
	// Backup keeps the previous contents of a file that is about to be overwritten in <name>.old
	Backup bool

	Logger zerolog.Logger
}

type Session struct {
	buf    *buffer.Buffer
	layout *tables.Layout
	opts   Options
}

// Open loads path and checks that every field of layout fits inside it.
func Open(path string, layout *tables.Layout, opts Options) (*Session, error) {
	buf, err := buffer.Load(path)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().Str("path", path).Int("size", buf.Len()).Str("layout", layout.Name).Msg("Loaded save file")
	return New(buf, layout, opts), nil
}

// New starts a session on an already loaded buffer.
func New(buf *buffer.Buffer, layout *tables.Layout, opts Options) *Session {
	if layout.MinSize() > buf.Len() {
		opts.Logger.Warn().Int("size", buf.Len()).Int("needed", layout.MinSize()).Str("layout", layout.Name).
			Msg("Save file is smaller than the layout; some fields will be unreadable")
	}
	return &Session{buf: buf, layout: layout, opts: opts}
}

func (s *Session) Layout() *tables.Layout {
	return s.layout
}

// Path is where the save file was loaded from.
func (s *Session) Path() string {
	return s.buf.Path()
}

func (s *Session) Size() int {
	return s.buf.Len()
}

// Dirty reports whether any field has been set since the file was loaded or last saved.
func (s *Session) Dirty() bool {
	return s.buf.Dirty()
}

// Fields returns the layout's fields in order.
func (s *Session) Fields() []types.FieldSpec {
	return s.layout.Fields()
}

// Raw returns the undecoded bytes of a field, padding and all.
func (s *Session) Raw(name string) ([]byte, error) {
	spec, err := s.layout.Field(name)
	if err != nil {
		return nil, err
	}
	return s.buf.ReadRange(spec.Offset, spec.Length)
}

// Get returns the current text of a field.
func (s *Session) Get(name string) (string, error) {
	spec, err := s.layout.Field(name)
	if err != nil {
		return "", err
	}
	return readers.ReadTextField(s.buf, spec)
}

// Set replaces the text of a field.  Text that doesn't fit is cut off.
// The returned string is what the field will read back as, which tells the
// caller whether anything was lost.
func (s *Session) Set(name string, text string) (string, error) {
	spec, err := s.layout.Field(name)
	if err != nil {
		return "", err
	}
	err = writers.EncodeTextField(s.buf, spec, text)
	if err != nil {
		return "", err
	}

	got := readers.DecodeTextField(s.buf, spec)
	if got != text {
		s.opts.Logger.Warn().Str("field", name).Str("wanted", text).Str("got", got).Msg("Value did not fit the field")
	}
	s.opts.Logger.Debug().Str("field", name).Str("value", got).Msg("Field set")
	return got, nil
}

// Values returns the text of every field, keyed by name.  Unreadable fields are left out.
func (s *Session) Values() map[string]string {
	out := map[string]string{}
	for _, spec := range s.layout.Fields() {
		str, err := readers.ReadTextField(s.buf, spec)
		if err != nil {
			continue
		}
		out[spec.Name] = str
	}
	return out
}

// Save overwrites the file the session was loaded from.
func (s *Session) Save() error {
	if s.buf.Path() == "" {
		return errors.New("nowhere to save to: session was not loaded from a file")
	}
	return s.SaveAs(s.buf.Path())
}

// SaveAs writes the whole buffer to path.  path may be the loaded file itself.
func (s *Session) SaveAs(path string) error {
	if s.opts.Backup {
		err := backup(path)
		if err != nil {
			return err
		}
	}

	err := s.buf.Save(path)
	if err != nil {
		return err
	}
	s.opts.Logger.Info().Str("path", path).Msg("Saved")
	return nil
}

// BackupName is where backup puts the old contents of path: the same name with the extension replaced by "old".
func BackupName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".old"
}

// backup copies whatever is at path to BackupName(path).
func backup(path string) error {
	old, err := buffer.Load(path)
	if errors.Is(err, types.ErrNotFound) {
		// Nothing to back up
		return nil
	}
	if err != nil {
		return err
	}
	return old.Save(BackupName(path))
}
