package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/reproject"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// exportCommand writes the stored session as a printable A4 PDF.
func (c *CLI) exportCommand() *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored word cloud as an A4 PDF",
		Long: `Export lays out the stored roster with its settings and seed, then
re-projects it onto an A4 page. Without -o the file is named after today's
date in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			s, store, err := c.openSession(cmd.Context(), cfg, runner)
			if err != nil {
				return err
			}
			defer store.Close()
			defer s.Close()

			if output == "" {
				output = sink.ExportFileName(time.Now())
			}
			return exportSession(cmd.Context(), s, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

// exportSession writes the session PDF to path. Nothing is written when
// the export fails.
func exportSession(ctx context.Context, s *session.Session, path string) error {
	if s.Stats().Visible == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no visible names to export")
	}

	spinner := newSpinnerWithContext(ctx, "Exporting PDF...")
	spinner.Start()
	var buf bytes.Buffer
	proj, err := s.ExportPDF(ctx, &buf)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Exported %d words", len(proj.Placements)))
	printFile(path)
	reportUnresolved(proj)
	return nil
}

func reportUnresolved(proj reproject.Result) {
	if len(proj.Unresolved) == 0 {
		return
	}
	printWarning("%d words overlap on the page", len(proj.Unresolved))
	for _, i := range proj.Unresolved {
		printDetail("%s", proj.Placements[i].Text)
	}
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wordcloud-*.pdf")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "rename %s", path)
	}
	return nil
}
