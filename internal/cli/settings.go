package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// settingsCommand shows or updates the layout settings of the stored
// session. Without flags it only prints them.
func (c *CLI) settingsCommand() *cobra.Command {
	var (
		minSize, maxSize float64
		scheme, textCase string
		multiplier       int
		seed             uint64
		reshuffle        bool
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored layout settings",
		Example: `  wordcloud settings
  wordcloud settings --min 14 --max 60 --scheme black-red-initial
  wordcloud settings --reshuffle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session.Session) error {
				st := s.Snapshot()
				cfg := st.Config
				if overrideConfig(cmd.Flags(), &cfg, minSize, maxSize, scheme, textCase, multiplier) {
					if err := s.SetConfig(cfg); err != nil {
						return err
					}
					printSuccess("Updated settings")
				}
				switch {
				case reshuffle:
					printSuccess("New seed %d", s.Reseed(0))
				case cmd.Flags().Changed("seed"):
					s.Reseed(seed)
				}

				st = s.Snapshot()
				printKeyValue("Font size", fmt.Sprintf("%g to %g px", st.Config.MinFontSize, st.Config.MaxFontSize))
				printKeyValue("Colors", string(st.Config.ColorScheme))
				printKeyValue("Case", string(st.Config.TextCase))
				printKeyValue("Highlight", "×"+strconv.Itoa(st.Config.HighlightMultiplier))
				printKeyValue("Seed", strconv.FormatUint(st.Seed, 10))
				return s.Flush()
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&minSize, "min", cloud.DefaultMinFontSize, "smallest font size in px")
	f.Float64Var(&maxSize, "max", cloud.DefaultMaxFontSize, "largest font size in px")
	f.StringVar(&scheme, "scheme", string(cloud.DefaultColorScheme), "color scheme: rainbow, black, black-red-initial")
	f.StringVar(&textCase, "case", string(cloud.DefaultTextCase), "text case: uppercase, lowercase, capitalized, as-is")
	f.IntVar(&multiplier, "multiplier", cloud.DefaultHighlightMultiplier, "repeat factor of the highlighted name")
	f.Uint64Var(&seed, "seed", 0, "layout seed")
	f.BoolVar(&reshuffle, "reshuffle", false, "draw a new random seed")
	cmd.MarkFlagsMutuallyExclusive("seed", "reshuffle")

	return cmd
}

// overrideConfig copies the explicitly set flags into cfg and reports
// whether any was set.
func overrideConfig(flags *pflag.FlagSet, cfg *cloud.LayoutConfig, minSize, maxSize float64, scheme, textCase string, multiplier int) bool {
	changed := false
	if flags.Changed("min") {
		cfg.MinFontSize, changed = minSize, true
	}
	if flags.Changed("max") {
		cfg.MaxFontSize, changed = maxSize, true
	}
	if flags.Changed("scheme") {
		cfg.ColorScheme, changed = cloud.ColorScheme(scheme), true
	}
	if flags.Changed("case") {
		cfg.TextCase, changed = cloud.TextCase(textCase), true
	}
	if flags.Changed("multiplier") {
		cfg.HighlightMultiplier, changed = multiplier, true
	}
	return changed
}
