package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"savedit/buffer"
	"savedit/tables"
	"savedit/types"
)

func make_save(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func two_fields(t *testing.T) *tables.Layout {
	layout, err := tables.NewLayout("test",
		types.FieldSpec{Name: "name", Offset: 0, Length: 7},
		types.FieldSpec{Name: "rival", Offset: 8, Length: 7, Pad: 0x50},
	)
	require.NoError(t, err)
	return layout
}

func Test_GetSet(t *testing.T) {
	data := append([]byte("RED\x00\x00\x00\x00!"), []byte("BLUEPPP!")...)
	path := make_save(t, "POKEMON.SAV", data)

	s, err := Open(path, two_fields(t), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.Equal(t, path, s.Path())
	require.Equal(t, 16, s.Size())
	require.False(t, s.Dirty())

	require.Equal(t, map[string]string{"name": "RED", "rival": "BLUE"}, s.Values())

	got, err := s.Set("name", "Ash")
	require.NoError(t, err)
	require.Equal(t, "Ash", got)
	require.True(t, s.Dirty())

	got, err = s.Set("rival", "Gary Oak")
	require.NoError(t, err)
	require.Equal(t, "Gary Oa", got)

	str, err := s.Get("rival")
	require.NoError(t, err)
	require.Equal(t, "Gary Oa", str)

	raw, err := s.Raw("name")
	require.NoError(t, err)
	require.Equal(t, []byte("Ash\x00\x00\x00\x00"), raw)

	_, err = s.Get("money")
	require.ErrorIs(t, err, types.ErrUnknownField)
	_, err = s.Set("money", "1000000")
	require.ErrorIs(t, err, types.ErrUnknownField)

	// Nothing touched disk yet
	on_disk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, data, on_disk)
}

func Test_SaveInPlace(t *testing.T) {
	path := make_save(t, "POKEMON.SAV", make([]byte, 16))
	s, err := Open(path, tables.Default(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = s.Set("trainer_name", "Ash")
	require.NoError(t, err)
	require.NoError(t, s.Save())
	require.False(t, s.Dirty())

	on_disk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, append([]byte("Ash"), make([]byte, 13)...), on_disk)

	_, err = os.Stat(BackupName(path))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func Test_SaveAsWithBackup(t *testing.T) {
	path := make_save(t, "POKEMON.SAV", []byte("RED\x00\x00\x00\x00"))
	copy_path := filepath.Join(filepath.Dir(path), "COPY.SAV")
	require.NoError(t, os.WriteFile(copy_path, []byte("OLDCOPY"), 0644))

	s, err := Open(path, tables.Default(), Options{Backup: true, Logger: zerolog.Nop()})
	require.NoError(t, err)
	_, err = s.Set("trainer_name", "Ash")
	require.NoError(t, err)

	// Existing target: backed up first
	require.NoError(t, s.SaveAs(copy_path))
	old, err := os.ReadFile(filepath.Join(filepath.Dir(path), "COPY.old"))
	require.NoError(t, err)
	require.Equal(t, []byte("OLDCOPY"), old)
	copied, err := os.ReadFile(copy_path)
	require.NoError(t, err)
	require.Equal(t, []byte("Ash\x00\x00\x00\x00"), copied)

	// New target: nothing to back up
	new_path := filepath.Join(filepath.Dir(path), "NEW.SAV")
	require.NoError(t, s.SaveAs(new_path))
	_, err = os.Stat(BackupName(new_path))
	require.ErrorIs(t, err, os.ErrNotExist)

	// The original was never touched
	orig, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("RED\x00\x00\x00\x00"), orig)
}

func Test_SmallFile(t *testing.T) {
	s := New(buffer.New([]byte("ab")), two_fields(t), Options{Logger: zerolog.Nop()})

	_, err := s.Get("name")
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	_, err = s.Set("name", "Ash")
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	require.False(t, s.Dirty())
	require.Empty(t, s.Values())

	// Not loaded from a file, so there is nowhere to save to
	require.Error(t, s.Save())
}

func Test_OpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.sav"), tables.Default(), Options{})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func Test_BackupName(t *testing.T) {
	require.Equal(t, "dir/GAME.old", BackupName("dir/GAME.SAV"))
	require.Equal(t, "dir/GAME.old", BackupName("dir/GAME"))
}
