package session

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	wio "github.com/matzehuels/wordcloud/pkg/io"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/reproject"
	"github.com/matzehuels/wordcloud/pkg/schedule"
)

// Session is one editable word cloud. It is safe for concurrent use;
// layout passes are serialized.
type Session struct {
	key    string
	store  Store
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	ctx       context.Context
	debouncer schedule.Debouncer
	onLayout  func(layout.Result)

	mu     sync.Mutex // guards roster, config, seed, csv, latest
	roster *cloud.Roster
	config cloud.LayoutConfig
	seed   uint64
	csv    string
	latest *layout.Result

	layoutMu  sync.Mutex // serializes layout passes
	persistMu sync.Mutex // orders record writes
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	logger       *log.Logger
	newDebouncer func(fn func()) schedule.Debouncer
	onLayout     func(layout.Result)
	opts         pipeline.Options
	seed         uint64
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option { return func(c *sessionConfig) { c.logger = l } }

// WithDebouncer replaces the 500 ms timer that coalesces layout requests.
func WithDebouncer(newDebouncer func(fn func()) schedule.Debouncer) Option {
	return func(c *sessionConfig) { c.newDebouncer = newDebouncer }
}

// WithOnLayout registers a callback for every debounced layout pass.
func WithOnLayout(fn func(layout.Result)) Option { return func(c *sessionConfig) { c.onLayout = fn } }

// WithPipelineOptions sets canvas and document options. Config and Seed
// are ignored; they come from the session state.
func WithPipelineOptions(opts pipeline.Options) Option {
	return func(c *sessionConfig) { c.opts = opts }
}

// WithSeed sets the seed used when the stored record has none.
func WithSeed(seed uint64) Option { return func(c *sessionConfig) { c.seed = seed } }

// New opens the session stored under key. An absent, unreadable or
// malformed record starts a fresh session; the failure is logged.
func New(ctx context.Context, key string, store Store, runner *pipeline.Runner, opts ...Option) (*Session, error) {
	if err := errors.ValidateStoreKey(key); err != nil {
		return nil, err
	}
	cfg := sessionConfig{seed: pipeline.DefaultSeed}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.newDebouncer == nil {
		cfg.newDebouncer = func(fn func()) schedule.Debouncer { return schedule.New(schedule.DefaultWait, fn) }
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.logger)
	}

	s := &Session{
		key:      key,
		store:    store,
		runner:   runner,
		opts:     cfg.opts,
		logger:   cfg.logger,
		ctx:      context.WithoutCancel(ctx),
		onLayout: cfg.onLayout,
		roster:   &cloud.Roster{},
		config:   cloud.DefaultConfig(),
		seed:     cfg.seed,
	}
	s.debouncer = cfg.newDebouncer(s.runScheduled)
	s.load(ctx)
	return s, nil
}

func (s *Session) load(ctx context.Context) {
	data, found, err := s.store.Get(ctx, s.key)
	observability.Store().OnLoad(ctx, s.store.Backend(), s.key, found, err)
	if err != nil {
		s.logger.Warn("could not load session, starting fresh", "key", s.key, "backend", s.store.Backend(), "error", err)
		return
	}
	if !found {
		s.logger.Debug("no stored session", "key", s.key)
		return
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		s.logger.Warn("stored session is malformed, starting fresh", "key", s.key, "error", err)
		return
	}

	st := rec.State()
	s.roster = cloud.NewRoster(st.Entries)
	s.config = st.Config
	s.csv = st.CSV
	if st.Seed != 0 {
		s.seed = st.Seed
	}
	s.logger.Debug("loaded session", "key", s.key, "names", s.roster.Len())
}

// Key returns the store key of the session.
func (s *Session) Key() string { return s.key }

// SetConfig replaces the layout settings. Zero fields take their defaults
// and inverted font bounds are swapped.
func (s *Session) SetConfig(cfg cloud.LayoutConfig) error {
	cfg = cfg.Merge(cloud.DefaultConfig()).Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	s.changed("set config")
	return nil
}

// SetEntries replaces the roster. Entries that would expand past the
// placement limits are rejected with INVALID_INPUT and nothing changes.
func (s *Session) SetEntries(entries []cloud.NameEntry) error {
	s.mu.Lock()
	if err := cloud.ValidateEntries(entries, s.config); err != nil {
		s.mu.Unlock()
		return err
	}
	s.roster.Set(entries)
	s.mu.Unlock()
	s.changed("set entries")
	return nil
}

// ToggleHidden flips the hidden flag of label.
func (s *Session) ToggleHidden(label string) error {
	s.mu.Lock()
	ok := s.roster.ToggleHidden(label)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown name: %q", label)
	}
	s.changed("toggle hidden")
	return nil
}

// ToggleHighlight makes label the highlighted entry, or clears it.
func (s *Session) ToggleHighlight(label string) error {
	s.mu.Lock()
	ok := s.roster.ToggleHighlight(label)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown name: %q", label)
	}
	s.changed("toggle highlight")
	return nil
}

// ImportCSV replaces the roster with the first column of a CSV document
// and returns the number of distinct names. Malformed input yields an
// empty roster.
func (s *Session) ImportCSV(text string) int {
	labels := wio.ReadCSV(strings.NewReader(text))
	s.mu.Lock()
	s.roster.Import(labels)
	s.csv = text
	n := s.roster.Len()
	s.mu.Unlock()

	if len(labels) == 0 && strings.TrimSpace(text) != "" {
		s.logger.Warn("csv import produced no names")
	}
	s.changed("import csv")
	return n
}

// AddNames merges names typed by the user, separated by commas,
// semicolons or newlines, and returns how many were read.
func (s *Session) AddNames(text string) int {
	labels := wio.ParseNames(text)
	if len(labels) == 0 {
		return 0
	}
	s.mu.Lock()
	s.roster.Add(labels...)
	s.mu.Unlock()
	s.changed("add names")
	return len(labels)
}

// Clear empties the roster, restores default settings and deletes the
// stored record.
func (s *Session) Clear() {
	s.mu.Lock()
	s.roster.Clear()
	s.config = cloud.DefaultConfig()
	s.csv = ""
	s.mu.Unlock()

	s.persistMu.Lock()
	err := s.store.Delete(s.ctx, s.key)
	s.persistMu.Unlock()
	if err != nil {
		s.logger.Warn("could not delete session", "key", s.key, "error", err)
	}
	s.logger.Info("cleared session", "key", s.key)
	s.debouncer.Trigger()
}

// Reseed sets the layout seed. Zero draws a fresh random seed.
func (s *Session) Reseed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	s.mu.Lock()
	s.seed = seed
	s.mu.Unlock()
	s.changed("reseed")
	return seed
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	return State{Entries: s.roster.Entries(), Config: s.config, Seed: s.seed, CSV: s.csv}
}

// Stats returns the roster counters.
func (s *Session) Stats() cloud.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Stats()
}

// Latest returns the result of the most recent layout pass.
func (s *Session) Latest() (layout.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return layout.Result{}, false
	}
	return *s.latest, true
}

// PipelineOptions returns the pipeline options for the current state.
func (s *Session) PipelineOptions() pipeline.Options {
	return s.optionsFor(s.Snapshot())
}

func (s *Session) optionsFor(st State) pipeline.Options {
	opts := s.opts
	opts.Config = st.Config
	opts.Seed = st.Seed
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	return opts
}

// RequestLayout runs a layout pass on the current state. Unchanged state
// gives an identical result.
func (s *Session) RequestLayout(ctx context.Context) (layout.Result, error) {
	s.layoutMu.Lock()
	defer s.layoutMu.Unlock()

	st := s.Snapshot()
	res, err := s.runner.Layout(ctx, st.Entries, s.optionsFor(st))
	if err != nil {
		return layout.Result{}, err
	}

	s.mu.Lock()
	s.latest = &res
	s.mu.Unlock()
	return res, nil
}

// ExportDocument lays out the current state and re-projects it onto the
// page without writing a file.
func (s *Session) ExportDocument(ctx context.Context) (reproject.Result, error) {
	res, err := s.RequestLayout(ctx)
	if err != nil {
		return reproject.Result{}, err
	}
	opts := s.PipelineOptions()
	if err := opts.ValidateForRender(); err != nil {
		return reproject.Result{}, err
	}
	return reproject.Project(res.Words, opts.Config, s.runner.DocMeasurer,
		reproject.WithPage(opts.Page()),
		reproject.WithSpacing(opts.WordSpacing),
		reproject.WithAttempts(opts.Attempts),
	), nil
}

// ExportPDF writes the printable document to w. Nothing is written when
// the export fails.
func (s *Session) ExportPDF(ctx context.Context, w io.Writer) (reproject.Result, error) {
	res, err := s.RequestLayout(ctx)
	if err != nil {
		return reproject.Result{}, err
	}
	data, proj, err := s.runner.Export(ctx, res, s.PipelineOptions())
	if err != nil {
		return reproject.Result{}, err
	}
	if _, err := w.Write(data); err != nil {
		return reproject.Result{}, errors.Wrap(errors.ErrCodeExportFailed, err, "write pdf")
	}
	s.logger.Info("exported document", "words", len(proj.Placements), "unresolved", len(proj.Unresolved))
	return proj, nil
}

// Flush persists the current state immediately.
func (s *Session) Flush() error { return s.persist() }

// Close cancels a pending layout pass. The store stays open.
func (s *Session) Close() error {
	s.debouncer.Cancel()
	return nil
}

func (s *Session) changed(op string) {
	s.logger.Debug("session changed", "op", op, "key", s.key)
	if err := s.persist(); err != nil {
		s.logger.Warn("could not save session", "key", s.key, "backend", s.store.Backend(), "error", err)
	}
	s.debouncer.Trigger()
}

func (s *Session) persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	data, err := EncodeRecord(NewRecord(s.Snapshot()))
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.store.Set(s.ctx, s.key, data)
	observability.Store().OnSave(s.ctx, s.store.Backend(), s.key, len(data), time.Since(start), err)
	return err
}

func (s *Session) runScheduled() {
	res, err := s.RequestLayout(s.ctx)
	if err != nil {
		s.logger.Error("layout failed", "key", s.key, "error", err)
		return
	}
	s.logger.Debug("layout refreshed", "words", len(res.Words), "fallbacks", len(res.Fallbacks))
	if s.onLayout != nil {
		s.onLayout(res)
	}
}
