package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// namesCommand creates the names command, which edits the roster kept in
// the configured session store.
func (c *CLI) namesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Manage the stored roster of names",
	}

	cmd.AddCommand(c.namesListCommand())
	cmd.AddCommand(c.namesAddCommand())
	cmd.AddCommand(c.namesToggleCommand("hide", "Hide or show a name", (*session.Session).ToggleHidden))
	cmd.AddCommand(c.namesToggleCommand("highlight", "Highlight a name, or clear its highlight", (*session.Session).ToggleHighlight))
	cmd.AddCommand(c.namesImportCommand())
	cmd.AddCommand(c.namesClearCommand())

	return cmd
}

// withSession opens the stored session and runs fn on it. Mutations are
// saved as they happen; fn calls Flush to surface a store failure.
func (c *CLI) withSession(ctx context.Context, fn func(*session.Session) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, store, err := c.openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer store.Close()
	defer s.Close()

	return fn(s)
}

func (c *CLI) namesListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session.Session) error {
				entries := cloud.NewRoster(s.Snapshot().Entries).Sorted()
				if asJSON {
					return writeNamesJSON(cmd.OutOrStdout(), entries, s.Stats())
				}
				if len(entries) == 0 {
					printInfo("No names stored")
					printNextStep("Import a class list", "wordcloud names import classe.csv")
					return nil
				}
				fmt.Fprintln(stdout, nameTable(entries))
				fmt.Fprintln(stdout, "  "+formatStats(s.Stats(), 0))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print names and stats as JSON")
	return cmd
}

func writeNamesJSON(w io.Writer, entries []cloud.NameEntry, st cloud.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Names []cloud.NameEntry `json:"names"`
		Stats cloud.Stats       `json:"stats"`
	}{Names: entries, Stats: st})
}

// nameTable renders entries the way the names panel shows them: hidden
// names struck through, the highlighted one in the accent color.
func nameTable(entries []cloud.NameEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Label, strconv.Itoa(e.Count), nameStatus(e)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Count", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(entries) {
				return lipgloss.NewStyle()
			}
			switch e := entries[row]; {
			case e.Hidden:
				return styleHiddenName
			case e.Highlighted:
				return styleHighlightedName
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func nameStatus(e cloud.NameEntry) string {
	switch {
	case e.Hidden && e.Highlighted:
		return "hidden, highlighted"
	case e.Hidden:
		return "hidden"
	case e.Highlighted:
		return "highlighted"
	}
	return ""
}

func (c *CLI) namesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>...",
		Short: "Add names to the roster",
		Long:  `Add names to the roster. Each argument may hold several names separated by commas or semicolons; a repeated name counts once more.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session.Session) error {
				n := s.AddNames(strings.Join(args, "\n"))
				if n == 0 {
					return errors.New(errors.ErrCodeInvalidInput, "no names in %q", strings.Join(args, " "))
				}
				printSuccess("Added %d names", n)
				return s.Flush()
			})
		},
	}
}

func (c *CLI) namesToggleCommand(use, short string, toggle func(*session.Session, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session.Session) error {
				if err := toggle(s, args[0]); err != nil {
					return err
				}
				for _, e := range s.Snapshot().Entries {
					if e.Label == args[0] {
						printSuccess("%s: %s", e.Label, statusOrVisible(nameStatus(e)))
					}
				}
				return s.Flush()
			})
		},
		ValidArgsFunction: c.completeNames,
	}
}

func statusOrVisible(s string) string {
	if s == "" {
		return "visible"
	}
	return s
}

// completeNames offers the stored names for shell completion.
func (c *CLI) completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	_ = c.withSession(cmd.Context(), func(s *session.Session) error {
		for _, e := range s.Snapshot().Entries {
			if strings.HasPrefix(e.Label, toComplete) {
				names = append(names, e.Label)
			}
		}
		return nil
	})
	return names, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) namesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the roster with the first column of a CSV file",
		Long: `Replace the roster with the first column of a CSV file (- reads stdin).
Hidden and highlighted flags of names still present are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(s *session.Session) error {
				n := s.ImportCSV(text)
				if n == 0 {
					printWarning("No names found in %s", args[0])
					return s.Flush()
				}
				printSuccess("Imported %d names", n)
				fmt.Fprintln(stdout, "  "+formatStats(s.Stats(), 0))
				return s.Flush()
			})
		},
	}
}

func (c *CLI) namesClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all names and restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session.Session) error {
				s.Clear()
				printSuccess("Cleared all names and settings")
				return nil
			})
		},
	}
}

// readInput reads a whole file, or stdin for "-".
func readInput(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return string(data), nil
}
