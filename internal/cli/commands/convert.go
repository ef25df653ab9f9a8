package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/colony-core/foxtail/internal/cli/config"
	"github.com/colony-core/foxtail/internal/cli/ui"
	"github.com/colony-core/foxtail/internal/convert"
	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/linker"
)

// convertFlags are the conversion flags shared by 'convert' and 'watch'
type convertFlags struct {
	pretty     bool
	strip      bool
	header     string
	dictionary string
	prefix     string
	echo       bool
	list       bool
	json       bool
	dryRun     bool
}

// convertBindings maps configuration keys to the flags overriding them
var convertBindings = map[string]string{
	"convert.pretty":   "pretty",
	"convert.strip":    "strip",
	"convert.header":   "header",
	"types.dictionary": "types",
	"header.prefix":    "prefix",
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.pretty, "pretty", "p", false, "Output is formatted to be human readable")
	cmd.Flags().BoolVarP(&f.strip, "strip", "s", false, "Remove fields the firmware does not use")
	cmd.Flags().StringVarP(&f.header, "header", "c", "", "Generate a file of #define symbols for each named point")
	cmd.Flags().StringVarP(&f.dictionary, "types", "t", "", "Type dictionary used to map typeName to GUIDs")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "Macro prefix for generated #define symbols")
	cmd.Flags().BoolVar(&f.echo, "echo", false, "Also write the converted document to stdout")
	cmd.Flags().BoolVar(&f.list, "list", false, "Show the assigned point IDs")
	cmd.Flags().BoolVar(&f.json, "json", false, "Output errors in JSON format")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Run every pass without writing files")
}

// options resolves the conversion options from the configuration (which has
// the explicitly set flags folded in) and the positional arguments.
func (f *convertFlags) options(cmd *cobra.Command, args []string) (convert.Options, error) {
	cfg, err := config.LoadWithFlags(cmd.Flags(), convertBindings)
	if err != nil {
		return convert.Options{}, err
	}

	opts := convert.Options{
		Input:          args[0],
		Pretty:         cfg.Convert.Pretty,
		Strip:          cfg.Convert.Strip,
		HeaderFile:     cfg.Convert.Header,
		Prefix:         cfg.Header.Prefix,
		DictionaryFile: cfg.Types.Dictionary,
		DryRun:         f.dryRun,
	}
	if len(args) > 1 {
		opts.Output = args[1]
	}
	return opts, nil
}

// NewConvertCommand creates the convert command
func NewConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <infile> [<outfile>]",
		Short: "Convert a Node file with symbolic point IDs to numeric point IDs",
		Long: `Convert a Node file with symbolic point IDs to numeric point IDs.

The conversion:
  1. Assigns sequential IDs to every point, its IO register and initial value setter
  2. Resolves every component 'idRef' to the ID of the named point
  3. Maps 'typeName' to a 'type' GUID when a type dictionary is configured
  4. Removes name/typeName bookkeeping fields when --strip is given

<outfile> defaults to <infile> with '.id' inserted before the extension.
No file is written unless every step succeeds.`,
		Example: `  # Convert node.json to node.id.json
  foxtail convert node.json

  # Human readable output and a #define header of the point IDs
  foxtail convert node.json out.json --pretty -c points.h

  # Map type names to GUIDs and strip bookkeeping fields
  foxtail convert node.json -t types.json -s

  # Show the assigned IDs without writing anything
  foxtail convert node.json --list --dry-run`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	opts, err := flags.options(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	defer logger.Sync()

	result, err := convert.Run(opts, logger)
	if err != nil {
		return reportFailure(cmd, err, opts.Input, flags.json)
	}

	status := cmd.OutOrStdout()
	if flags.echo {
		fmt.Fprintln(cmd.OutOrStdout(), string(result.JSON))
		status = cmd.ErrOrStderr()
	}
	if flags.list {
		renderPointTable(status, result.Table)
	}
	reportConversion(status, opts, result)
	return nil
}

// reportFailure renders a failed operation and returns the error cobra
// reports on exit.
func reportFailure(cmd *cobra.Command, err error, input string, asJSON bool) error {
	if asJSON {
		out, jsonErr := fxterrors.FormatAsJSON(err)
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConversionError(err, input, color.NoColor))
	}

	if ce, ok := fxterrors.AsConvertError(err); ok {
		return fmt.Errorf("%s failed (%s)", ce.Phase, ce.Code)
	}
	return err
}

func reportConversion(w io.Writer, opts convert.Options, result *convert.Result) {
	if opts.DryRun {
		ui.WriteSuccess(w, fmt.Sprintf("Converted %s (dry run, nothing written)", opts.Input), color.NoColor)
	} else {
		ui.WriteSuccess(w, fmt.Sprintf("Wrote %s", result.Output), color.NoColor)
		if opts.HeaderFile != "" {
			ui.WriteSuccess(w, fmt.Sprintf("Wrote %s", opts.HeaderFile), color.NoColor)
		}
	}

	if verbose {
		table := ui.NewKeyValueTable(w, color.NoColor)
		table.AddRow("Point slots", result.Table.Len())
		table.AddRow("Named points", result.Table.NamedCount())
		table.AddRow("Typed objects", result.Typed)
		table.AddRow("Fields stripped", result.Stripped)
		table.AddRow("Duration", result.Duration.Round(time.Microsecond))
		table.Render()
	}
}

func renderPointTable(w io.Writer, table *linker.Table) {
	ui.Header(w, "Point IDs", color.NoColor)
	t := ui.NewTable(w, []ui.Column{
		{Title: "ID", Align: ui.AlignRight},
		{Title: "Kind"},
		{Title: "Name"},
		{Title: "Owner"},
	}, color.NoColor)
	for _, slot := range table.Slots() {
		name := slot.Name
		if !slot.Named() {
			name = "-"
		}
		t.AddRow(strconv.Itoa(slot.ID), slot.Kind.String(), name, slot.Owner)
	}
	t.Render()
}
