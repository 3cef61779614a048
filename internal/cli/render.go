package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	wio "github.com/matzehuels/wordcloud/pkg/io"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
// Settings flags only override the config file when set explicitly.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // svg, png, pdf, json
	names      string   // extra names, comma/semicolon/newline separated
	seed       uint64   // layout seed
	minSize    float64  // smallest font size, px
	maxSize    float64  // largest font size, px
	scheme     string   // color scheme
	textCase   string   // text case
	multiplier int      // highlight multiplier
	highlight  string   // name to highlight
	hide       []string // names to hide
	scale      float64  // PNG scale
	embedFont  bool     // embed the font in SVG output
	noCache    bool     // bypass the layout cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a roster of names to SVG, PNG, PDF or JSON",
		Long: `Render reads names from the first column of a CSV file (or stdin with -),
merges any --names, places them on the canvas and writes one file per format.

A name that occurs several times is drawn larger. The highlighted name is
repeated --multiplier times as often; hidden names are left out.`,
		Example: `  wordcloud render classe.csv -f svg,pdf
  wordcloud render --names "Léa, Hugo, Léa" -o cloud.png -f png
  cat classe.csv | wordcloud render - --scheme black-red-initial --highlight Hugo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" && strings.TrimSpace(opts.names) == "" {
				return errors.New(errors.ErrCodeInvalidInput, "no names: pass a CSV file, - for stdin, or --names")
			}

			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			po := cfg.PipelineOptions()
			applyRenderFlags(cmd.Flags(), &po, &opts)
			return c.runRender(cmd.Context(), cmd.InOrStdin(), input, po, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	f.StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringVar(&opts.names, "names", "", "extra names, separated by commas, semicolons or newlines")
	f.Uint64Var(&opts.seed, "seed", pipeline.DefaultSeed, "layout seed")
	f.Float64Var(&opts.minSize, "min", cloud.DefaultMinFontSize, "smallest font size in px")
	f.Float64Var(&opts.maxSize, "max", cloud.DefaultMaxFontSize, "largest font size in px")
	f.StringVar(&opts.scheme, "scheme", string(cloud.SchemeRainbow), "color scheme: rainbow, black, black-red-initial")
	f.StringVar(&opts.textCase, "case", string(cloud.CaseUpper), "text case: uppercase, lowercase, capitalized, as-is")
	f.IntVar(&opts.multiplier, "multiplier", cloud.DefaultHighlightMultiplier, "repeat factor of the highlighted name")
	f.StringVar(&opts.highlight, "highlight", "", "name to highlight")
	f.StringSliceVar(&opts.hide, "hide", nil, "names to leave out (repeatable)")
	f.Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	f.BoolVar(&opts.embedFont, "embed-font", false, "embed the font in SVG output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("scheme", cobra.FixedCompletions(
		[]string{string(cloud.SchemeRainbow), string(cloud.SchemeBlack), string(cloud.SchemeBlackRedInitial)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("case", cobra.FixedCompletions(
		[]string{string(cloud.CaseUpper), string(cloud.CaseLower), string(cloud.CaseCapitalized), string(cloud.CaseAsIs)}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// applyRenderFlags copies explicitly set flags over the configured options.
func applyRenderFlags(flags *pflag.FlagSet, po *pipeline.Options, opts *renderOpts) {
	if flags.Changed("seed") {
		po.Seed = opts.seed
	}
	overrideConfig(flags, &po.Config, opts.minSize, opts.maxSize, opts.scheme, opts.textCase, opts.multiplier)
	if flags.Changed("scale") {
		po.Scale = opts.scale
	}
	po.EmbedFont = opts.embedFont
}

// runRender builds the roster, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, input string, po pipeline.Options, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	roster, err := buildRoster(stdin, input, opts)
	if err != nil {
		return err
	}
	st := roster.Stats()
	if st.Visible == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no visible names to render")
	}
	logger.Infof("Loaded %d names (%d visible)", st.Total, st.Visible)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	po.Formats = opts.formats
	po.Logger = logger

	spinner := newSpinnerWithContext(ctx, "Placing words...")
	spinner.Start()
	res, err := runner.Execute(ctx, roster.Entries(), po)
	spinner.Stop()
	if err != nil {
		return err
	}

	base := basePath(opts.output, input, time.Now())
	var paths []string
	for _, format := range opts.formats {
		path := artifactPath(opts.output, base, format, len(opts.formats))
		if err := writeArtifact(path, res.Artifacts[format]); err != nil {
			return err
		}
		if path != "-" {
			paths = append(paths, path)
		}
	}

	if len(paths) > 0 {
		printSuccess("Rendered %d words", res.Stats.Words)
		printStats(st, res.Stats.Fallbacks, res.CacheInfo.LayoutHit)
		for _, p := range paths {
			printFile(p)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d files", len(opts.formats)))
	return nil
}

// buildRoster reads the CSV input and applies the name flags.
func buildRoster(stdin io.Reader, input string, opts *renderOpts) (*cloud.Roster, error) {
	roster := &cloud.Roster{}
	switch input {
	case "":
	case "-":
		roster.Import(wio.ReadCSV(stdin))
	default:
		labels, err := wio.ImportCSV(input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", input)
		}
		roster.Import(labels)
	}
	if opts.names != "" {
		roster.Add(wio.ParseNames(opts.names)...)
	}

	for _, name := range opts.hide {
		if !roster.ToggleHidden(name) {
			printWarning("Unknown name %q, not hidden", name)
		}
	}
	if opts.highlight != "" && !roster.ToggleHighlight(opts.highlight) {
		printWarning("Unknown name %q, not highlighted", opts.highlight)
	}
	return roster, nil
}

// basePath derives the base output path. Without an output it strips the
// extension from the input file, or uses the dated export name for stdin
// and --names input. A known format extension on the output is stripped.
func basePath(output, input string, now time.Time) string {
	if output == "" {
		if input == "" || input == "-" {
			return strings.TrimSuffix(sink.ExportFileName(now), ".pdf")
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns where one format is written. A single format goes
// to the output as given.
func artifactPath(output, base, format string, count int) string {
	if count == 1 && output != "" {
		return output
	}
	return base + "." + format
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "create %s", path)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing; "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
