package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/colony-core/foxtail/internal/cli/config"
	"github.com/colony-core/foxtail/internal/cli/ui"
	fxtstrings "github.com/colony-core/foxtail/internal/util/strings"
)

var (
	initInteractive bool
	initForce       bool
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a foxtail.yml configuration file",
		Long: `Write a foxtail.yml with the default settings to the current directory.

With --interactive you are asked for the type dictionary, the generated
header and the conversion defaults. Every setting can be overridden per run
with command line flags or FOXTAIL_* environment variables
(e.g. FOXTAIL_HEADER_PREFIX).`,
		Example: `  foxtail init
  foxtail init --interactive`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for each setting")
	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing foxtail.yml")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.Exists() && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	}

	cfg := config.Default()
	if initInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Write(cfg, config.FileName); err != nil {
		return err
	}

	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s", config.FileName), color.NoColor)
	return nil
}

func promptConfig(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name:   "dictionary",
			Prompt: &survey.Input{Message: "Type dictionary file (empty: no GUID mapping):", Default: cfg.Types.Dictionary},
		},
		{
			Name:   "header",
			Prompt: &survey.Input{Message: "Generated #define header (empty: none):", Default: cfg.Convert.Header},
		},
		{
			Name:   "prefix",
			Prompt: &survey.Input{Message: "Point macro prefix:", Default: cfg.Header.Prefix},
			Validate: survey.ComposeValidators(survey.Required, func(ans interface{}) error {
				if s, ok := ans.(string); ok && !fxtstrings.IsMacroPrefix(s) {
					return fmt.Errorf("%q is not a valid C identifier prefix", s)
				}
				return nil
			}),
		},
		{
			Name:   "pretty",
			Prompt: &survey.Confirm{Message: "Pretty print converted files?", Default: cfg.Convert.Pretty},
		},
		{
			Name:   "strip",
			Prompt: &survey.Confirm{Message: "Strip bookkeeping fields from converted files?", Default: cfg.Convert.Strip},
		},
	}

	answers := struct {
		Dictionary string
		Header     string
		Prefix     string
		Pretty     bool
		Strip      bool
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Types.Dictionary = answers.Dictionary
	cfg.Convert.Header = answers.Header
	cfg.Header.Prefix = answers.Prefix
	cfg.Convert.Pretty = answers.Pretty
	cfg.Convert.Strip = answers.Strip
	return nil
}
