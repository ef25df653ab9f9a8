package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/colony-core/foxtail/internal/cli/config"
	"github.com/colony-core/foxtail/internal/cli/ui"
	"github.com/colony-core/foxtail/internal/ptalloc"
)

var pointsBindings = map[string]string{
	"points.src_root": "src-root",
}

// NewPointsCommand creates the points command
func NewPointsCommand() *cobra.Command {
	var (
		pkgRoot string
		clean   bool
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "points <allocation-header>",
		Short: "Regenerate the point identifiers of a point allocation header",
		Long: `Collect the FXT_POINT_DEFINE( name type ) declarations from the headers
included by <allocation-header> (resolved under <pkg-root>/<src-root>) and from
the allocation header itself, then rewrite the lines between

    MARKER_FXT_BEGIN_AUTO_GENERATION
    MARKER_FXT_END_AUTO_GENERATION

with one FXT_PTID_<NAME> identifier per point, grouped by point type.`,
		Example: `  # Regenerate Points.h of the current package
  foxtail points Points.h

  # Remove the generated identifiers
  foxtail points Points.h --clean`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFlags(cmd.Flags(), pointsBindings)
			if err != nil {
				return err
			}

			logger := newLogger(cmd)
			defer logger.Sync()

			result, err := ptalloc.Generate(args[0], ptalloc.Options{
				PkgRoot:     pkgRoot,
				SrcRoot:     cfg.Points.SrcRoot,
				Macro:       cfg.Points.Macro,
				Exclude:     cfg.Points.Exclude,
				BeginMarker: cfg.Points.MarkerBegin,
				EndMarker:   cfg.Points.MarkerEnd,
				Prefix:      cfg.Points.Prefix,
				Clean:       clean,
			}, logger)
			if err != nil {
				return reportFailure(cmd, err, "", false)
			}

			out := cmd.OutOrStdout()
			if list {
				t := ui.NewTable(out, []ui.Column{
					{Title: "ID", Align: ui.AlignRight},
					{Title: "Name"},
					{Title: "Type"},
				}, color.NoColor)
				for _, group := range result.Groups {
					for _, pt := range group.Points {
						t.AddRow(strconv.Itoa(pt.Index), pt.Name, pt.Type)
					}
				}
				t.Render()
			}

			if !result.Changed {
				fmt.Fprint(out, ui.Info(fmt.Sprintf("%s is up to date", args[0]), color.NoColor))
				return nil
			}
			ui.WriteSuccess(out, fmt.Sprintf("Updated %s: %d point(s) in %d type(s)",
				args[0], len(result.Points), len(result.Groups)), color.NoColor)
			return nil
		},
	}

	cmd.Flags().StringVar(&pkgRoot, "pkg-root", ".", "Package root the included headers are resolved against")
	cmd.Flags().String("src-root", ptalloc.DefaultSrcRoot, "Source directory below the package root")
	cmd.Flags().BoolVar(&clean, "clean", false, "Empty the generated block")
	cmd.Flags().BoolVar(&list, "list", false, "Show the collected points")

	return cmd
}
