package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/colony-core/foxtail/internal/cli/config"
	"github.com/colony-core/foxtail/internal/cli/ui"
	"github.com/colony-core/foxtail/internal/typedict"
)

var guidsBindings = map[string]string{
	"types.dictionary": "output",
	"types.pattern":    "pattern",
}

// NewCollectGUIDsCommand creates the collect-guids command
func NewCollectGUIDsCommand() *cobra.Command {
	var (
		appendMode bool
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "collect-guids <srcpath>",
		Short: "Build the type dictionary from GUID_STRING/TYPE_NAME declarations",
		Long: `Recursively scan the header files under <srcpath> for

    static constexpr const char* GUID_STRING = "...";
    static constexpr const char* TYPE_NAME   = "...";

and write the type name to GUID dictionary used by 'foxtail convert -t'.

Without --append the dictionary is regenerated from scratch. With --append
the existing entries are kept and newly found types are added after them.
When no output file is configured the dictionary is written to stdout.`,
		Example: `  # Regenerate the dictionary
  foxtail collect-guids src/Fxt -o types.json

  # Add newly declared types to an existing dictionary
  foxtail collect-guids src/Fxt -o types.json --append`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFlags(cmd.Flags(), guidsBindings)
			if err != nil {
				return err
			}

			logger := newLogger(cmd)
			defer logger.Sync()

			output := cfg.Types.Dictionary

			var dict *typedict.Dictionary
			if appendMode {
				if output == "" {
					return fmt.Errorf("--append needs an output file (-o or types.dictionary)")
				}
				if dict, err = typedict.LoadOrEmpty(output); err != nil {
					return reportFailure(cmd, err, "", false)
				}
			}

			dict, err = typedict.Collect(args[0], cfg.Types.Pattern, dict, logger)
			if err != nil {
				return reportFailure(cmd, err, "", false)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(dict.Render())
				return err
			}

			if err := dict.Save(output); err != nil {
				return reportFailure(cmd, err, "", false)
			}

			out := cmd.OutOrStdout()
			if list {
				t := ui.NewTable(out, []ui.Column{{Title: "Type"}, {Title: "GUID"}}, color.NoColor)
				for _, name := range dict.TypeNames() {
					guid, _ := dict.Lookup(name)
					t.AddRow(name, guid)
				}
				t.Render()
			}
			ui.WriteSuccess(out, fmt.Sprintf("Wrote %d type(s) to %s", dict.Len(), output), color.NoColor)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&appendMode, "append", "a", false, "Keep the existing dictionary entries and add new types")
	cmd.Flags().StringP("output", "o", "", "Dictionary file to write (default: types.dictionary, else stdout)")
	cmd.Flags().String("pattern", typedict.DefaultPattern, "Glob selecting the files to scan")
	cmd.Flags().BoolVar(&list, "list", false, "Show the dictionary entries")

	return cmd
}
