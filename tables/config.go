package tables

// Ini file format:
//
//	; default section: tool settings
//	dir = /home/me/saves
//	layout = gen1
//	backup = true
//
//	; every other section is a layout, every key in it a field:
//	; name = offset:length[:encoding[:pad]]
//	[gen1]
//	trainer_name = 0x2598:11:latin1:0x50
//	rival_name   = 0x25F6:11:latin1:0x50
//
// Offsets, lengths and pads may be decimal or 0x-prefixed hex.

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"savedit/types"
)

type Config struct {
	Dir    string
	Layout string
	Backup bool

	layouts map[string]*Layout
	order   []string
}

// DefaultConfig is what you get with no ini file at all.
func DefaultConfig() *Config {
	return &Config{
		Layout:  DefaultLayout,
		layouts: map[string]*Layout{DefaultLayout: Default()},
		order:   []string{DefaultLayout},
	}
}

// LoadConfig reads one or more ini sources (file names or []byte), later ones overriding earlier ones.
func LoadConfig(source any, others ...any) (*Config, error) {
	// ':' separates the parts of a field, so it can't also separate keys from values
	file, err := ini.LoadSources(ini.LoadOptions{KeyValueDelimiters: "="}, source, others...)
	if err != nil {
		return nil, err
	}

	out := DefaultConfig()
	def := file.Section(ini.DefaultSection)
	out.Dir = def.Key("dir").String()
	if name := def.Key("layout").String(); name != "" {
		out.Layout = name
	}
	out.Backup = def.Key("backup").MustBool(false)

	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		fields := []types.FieldSpec{}
		for _, key := range section.Keys() {
			spec, err := parse_field(key.Name(), key.String())
			if err != nil {
				return nil, fmt.Errorf("[%v] %v: %w", section.Name(), key.Name(), err)
			}
			fields = append(fields, spec)
		}
		layout, err := NewLayout(section.Name(), fields...)
		if err != nil {
			return nil, err
		}
		if _, exists := out.layouts[layout.Name]; !exists {
			out.order = append(out.order, layout.Name)
		}
		out.layouts[layout.Name] = layout
	}

	return out, nil
}

// parse_field parses "offset:length[:encoding[:pad]]"
func parse_field(name string, value string) (types.FieldSpec, error) {
	spec := types.FieldSpec{Name: name, Encoding: types.DefaultEncoding, Pad: types.DefaultPad}

	bits := strings.Split(value, ":")
	if len(bits) < 2 || len(bits) > 4 {
		return spec, fmt.Errorf("%w: expected offset:length[:encoding[:pad]], got %q", types.ErrInvalidSpec, value)
	}

	offset, err := strconv.ParseInt(strings.TrimSpace(bits[0]), 0, 0)
	if err != nil {
		return spec, fmt.Errorf("%w: bad offset %q", types.ErrInvalidSpec, bits[0])
	}
	length, err := strconv.ParseInt(strings.TrimSpace(bits[1]), 0, 0)
	if err != nil {
		return spec, fmt.Errorf("%w: bad length %q", types.ErrInvalidSpec, bits[1])
	}
	spec.Offset, spec.Length = int(offset), int(length)

	if len(bits) > 2 && strings.TrimSpace(bits[2]) != "" {
		spec.Encoding = strings.TrimSpace(bits[2])
	}
	if len(bits) > 3 {
		pad, err := strconv.ParseUint(strings.TrimSpace(bits[3]), 0, 8)
		if err != nil {
			return spec, fmt.Errorf("%w: bad pad byte %q", types.ErrInvalidSpec, bits[3])
		}
		spec.Pad = byte(pad)
	}

	return spec, spec.Validate()
}

// Layouts returns the names of all known layouts, built-in first, then in file order.
func (c *Config) Layouts() []string {
	return append([]string{}, c.order...)
}

// Select picks a layout by name.  An empty name means whatever the config says.
func (c *Config) Select(name string) (*Layout, error) {
	if name == "" {
		name = c.Layout
	}
	layout, ok := c.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: no layout called %v (layouts are: %v)", types.ErrUnknownLayout, name, strings.Join(c.order, ", "))
	}
	return layout, nil
}
