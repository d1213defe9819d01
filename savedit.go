package main

// savefile field editor
//
// example usage:
//
// savedit fields
// savedit get red.sav
// savedit get red.sav trainer
// savedit set red.sav trainer_name Ash
// savedit set red.sav trainer_name Ash --overwrite
// savedit set red.sav trainer_name Ash --out blue.sav
// savedit dump red.sav
// savedit watch red.sav
//
// Settings and field layouts are read from savedit.ini (see tables/config.go).

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"savedit/editor"
	"savedit/logging"
	"savedit/tables"
	"savedit/types"
	"savedit/watch"
)

// Where "set" writes when told neither --out nor --overwrite
const default_output = "modified_game.sav"

type app struct {
	config_file string
	dir         string
	layout_name string
	debug       bool

	cfg    *tables.Config
	layout *tables.Layout
	log    zerolog.Logger
}

func main() {
	cmd := new_root_cmd(os.Stdout, os.Stderr)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func new_root_cmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "savedit",
		Short:         "Save file field editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.config_file, "config", "c", "savedit.ini", "Ini file with settings and field layouts")
	flags.StringVarP(&a.dir, "dir", "d", "", "Directory that relative save file names are resolved against")
	flags.StringVarP(&a.layout_name, "layout", "l", "", "Field layout to use")
	flags.BoolVar(&a.debug, "debug", false, "Debug logging")

	root.AddCommand(
		a.fields_cmd(),
		a.get_cmd(),
		a.set_cmd(),
		a.dump_cmd(),
		a.watch_cmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, stderr io.Writer) error {
	a.log = logging.New(stderr, a.debug)

	cfg, err := tables.LoadConfig(a.config_file)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		// No ini file is fine unless someone explicitly asked for one
		a.log.Debug().Str("config", a.config_file).Msg("No config file, using built-in layout")
		cfg, err = tables.DefaultConfig(), nil
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	name := a.layout_name
	if name == "all" {
		name = ""
	}
	a.layout, err = cfg.Select(name)
	return err
}

// get_dir works out where save files live: command line, then ini file, then the current directory.
func (a *app) get_dir() string {
	if a.dir != "" {
		return a.dir
	}
	if a.cfg.Dir != "" {
		return a.cfg.Dir
	}
	wd, _ := os.Getwd()
	return wd
}

func (a *app) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(a.get_dir(), filename)
}

func (a *app) open(filename string) (*editor.Session, error) {
	return editor.Open(a.resolve(filename), a.layout, editor.Options{Backup: a.cfg.Backup, Logger: a.log})
}

func (a *app) fields_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields of the current layout (or of every layout, with --layout all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range a.cfg.Layouts() {
				layout, err := a.cfg.Select(name)
				if err != nil {
					return err
				}
				if layout != a.layout && a.layout_name != "all" {
					continue
				}
				fmt.Fprintln(out, "["+layout.Name+"]")
				for _, spec := range layout.Fields() {
					fmt.Fprintln(out, "   "+spec.String())
				}
			}
			return nil
		},
	}
}

func (a *app) get_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE [FIELD]",
		Short: "Display a field, or every field",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				for _, spec := range session.Fields() {
					str, err := session.Get(spec.Name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%v: %v\n", spec.Name, str)
				}
				return nil
			}

			spec, err := a.layout.Match(args[1])
			if err != nil {
				return err
			}
			str, err := session.Get(spec.Name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, str)
			return nil
		},
	}
}

func (a *app) set_cmd() *cobra.Command {
	var out_name string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "set FILE FIELD VALUE",
		Short: "Set a field and save the result",
		Long: "Set a field and save the result.\n\n" +
			"The result goes to --out, or back into FILE with --overwrite, or otherwise to " + default_output + " next to FILE.\n" +
			"Values that are too long for the field are cut off.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && out_name != "" {
				return errors.New("--out and --overwrite make no sense together")
			}

			session, err := a.open(args[0])
			if err != nil {
				return err
			}
			spec, err := a.layout.Match(args[1])
			if err != nil {
				return err
			}
			written, err := session.Set(spec.Name, args[2])
			if err != nil {
				return err
			}

			target := out_name
			switch {
			case overwrite:
				target = session.Path()
			case target == "":
				target = filepath.Join(filepath.Dir(session.Path()), default_output)
			default:
				target = a.resolve(target)
			}
			err = session.SaveAs(target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%v set to %q\n", spec.Name, written)
			fmt.Fprintln(cmd.OutOrStdout(), "New file written to", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out_name, "out", "o", "", "Save a copy here instead")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the original file")
	return cmd
}

func (a *app) dump_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "List every field with its location and raw bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%v: %v (%v bytes), layout %v\n", session.Path(), humanize.IBytes(uint64(session.Size())), session.Size(), a.layout.Name)
			for _, spec := range session.Fields() {
				dump_field(out, session, spec)
			}
			return nil
		},
	}
}

type field_source interface {
	Raw(name string) ([]byte, error)
	Get(name string) (string, error)
}

func dump_field(out io.Writer, src field_source, spec types.FieldSpec) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, spec.String())
	raw, err := src.Raw(spec.Name)
	if err != nil {
		fmt.Fprintln(out, "   UNREADABLE: "+err.Error())
		return
	}
	fmt.Fprintf(out, "   % x\n", raw)
	str, err := src.Get(spec.Name)
	if err != nil {
		fmt.Fprintln(out, "   UNREADABLE: "+err.Error())
		return
	}
	fmt.Fprintf(out, "   %q\n", str)
}

func (a *app) watch_cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Print fields whenever the file changes, until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx, a.resolve(args[0]), cmd.OutOrStdout())
		},
	}
}

func (a *app) watch(ctx context.Context, path string, out io.Writer) error {
	snapshots := make(chan watch.Snapshot)
	w := watch.New(path, a.layout, a.log)
	err := w.Start(ctx, snapshots)
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintln(out, "Watching...", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-snapshots:
			fmt.Fprintln(out)
			for _, name := range snap.Changed {
				fmt.Fprintf(out, "%v: %v\n", name, snap.Values[name])
			}
			fmt.Fprintln(out, strings.Repeat("-", 20))
		}
	}
}
