package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/reproject"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// editCommand opens the interactive editor on the stored session.
func (c *CLI) editCommand() *cobra.Command {
	var noCache bool
	var exportDir string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the stored roster in an interactive terminal editor",
		Long: `Edit opens the stored roster in a terminal editor.

Keys: ↑/↓ move, h hide or show, s highlight, r reshuffle, e export PDF, q quit.
The layout summary refreshes shortly after each change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Log lines would tear the alternate screen.
			quiet := log.NewWithOptions(io.Discard, log.Options{})
			runner.Logger = quiet

			var prog *tea.Program
			s, store, err := c.openSession(ctx, cfg, runner,
				session.WithLogger(quiet),
				session.WithDebouncer(cfg.Debouncer()),
				session.WithOnLayout(func(res layout.Result) {
					prog.Send(layoutMsg{res: res})
				}),
			)
			if err != nil {
				return err
			}
			defer store.Close()
			defer s.Close()

			prog = tea.NewProgram(newEditorModel(ctx, s, exportDir), tea.WithContext(ctx), tea.WithAltScreen())
			final, err := prog.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(editorModel); ok && fm.lastExport != "" {
				printFile(fm.lastExport)
			}
			return s.Flush()
		},
	}

	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported PDFs")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

// =============================================================================
// editorModel - Interactive roster editor
// =============================================================================

// editorSession is the part of a session the editor drives.
type editorSession interface {
	Snapshot() session.State
	Stats() cloud.Stats
	ToggleHidden(label string) error
	ToggleHighlight(label string) error
	Reseed(seed uint64) uint64
	RequestLayout(ctx context.Context) (layout.Result, error)
	ExportPDF(ctx context.Context, w io.Writer) (reproject.Result, error)
}

// layoutMsg carries a finished layout pass.
type layoutMsg struct {
	res layout.Result
	err error
}

// exportedMsg reports a finished PDF export.
type exportedMsg struct {
	path       string
	words      int
	unresolved int
	err        error
}

type editorModel struct {
	ctx       context.Context
	sess      editorSession
	exportDir string
	now       func() time.Time

	entries []cloud.NameEntry
	stats   cloud.Stats
	seed    uint64

	cursor int
	offset int
	height int

	latest     *layout.Result
	exporting  bool
	lastExport string
	status     string
	err        error
}

func newEditorModel(ctx context.Context, sess editorSession, exportDir string) editorModel {
	m := editorModel{
		ctx:       ctx,
		sess:      sess,
		exportDir: exportDir,
		now:       time.Now,
		height:    15,
	}
	m.refresh()
	return m
}

// refresh reloads the roster from the session, keeping the cursor on the
// same row when possible.
func (m *editorModel) refresh() {
	st := m.sess.Snapshot()
	m.entries = cloud.NewRoster(st.Entries).Sorted()
	m.seed = st.Seed
	m.stats = m.sess.Stats()
	m.cursor = min(m.cursor, max(len(m.entries)-1, 0))
	m.scroll()
}

func (m *editorModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m editorModel) Init() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		res, err := sess.RequestLayout(ctx)
		return layoutMsg{res: res, err: err}
	}
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		res := msg.res
		m.latest = &res
		m.err = nil

	case exportedMsg:
		m.exporting = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.lastExport = msg.path
		m.status = fmt.Sprintf("Exported %d words to %s", msg.words, msg.path)
		if msg.unresolved > 0 {
			m.status += fmt.Sprintf(" (%d overlap)", msg.unresolved)
		}

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-9, 5)
		m.scroll()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.scroll()
			}
		case "h":
			m.toggle(m.sess.ToggleHidden)
		case "s":
			m.toggle(m.sess.ToggleHighlight)
		case "r":
			seed := m.sess.Reseed(0)
			m.status = fmt.Sprintf("Reshuffled (seed %d)", seed)
			m.refresh()
		case "e":
			if m.exporting {
				return m, nil
			}
			if m.stats.Visible == 0 {
				m.status = "Nothing to export"
				return m, nil
			}
			m.exporting = true
			m.status = "Exporting..."
			return m, m.exportCmd()
		}
	}
	return m, nil
}

func (m *editorModel) toggle(fn func(string) error) {
	if len(m.entries) == 0 {
		return
	}
	if err := fn(m.entries[m.cursor].Label); err != nil {
		m.err = err
	}
	m.status = ""
	m.refresh()
}

func (m editorModel) exportCmd() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	path := filepath.Join(m.exportDir, sink.ExportFileName(m.now()))
	return func() tea.Msg {
		var buf bytes.Buffer
		proj, err := sess.ExportPDF(ctx, &buf)
		if err != nil {
			return exportedMsg{err: err}
		}
		if err := writeFileAtomic(path, buf.Bytes()); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path, words: len(proj.Placements), unresolved: len(proj.Unresolved)}
	}
}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Word Cloud"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  h hide  s highlight  r reshuffle  e export  q quit"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(listDimStyle.Render("  No names yet. Import a list with: wordcloud names import <file>"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.height, len(m.entries))
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s %3d", cursor, e.Label, e.Count)

		switch {
		case e.Hidden:
			b.WriteString(styleHiddenName.Render(line))
		case e.Highlighted:
			b.WriteString(styleHighlightedName.Render(line))
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fallbacks := 0
	if m.latest != nil {
		fallbacks = len(m.latest.Fallbacks)
	}
	b.WriteString("  " + formatStats(m.stats, fallbacks))
	b.WriteString("\n")
	if m.latest != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d words placed · seed %d", len(m.latest.Words), m.seed)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(StyleSuccess.Render("  " + m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styleIconError.Render("  " + iconError + " " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}
