package cache

// LayoutKeyOpts holds every input of a placement pass besides the roster.
type LayoutKeyOpts struct {
	Seed                uint64  `json:"seed"`
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	Spacing             float64 `json:"spacing"`
	Attempts            int     `json:"attempts"`
	MinFontSize         float64 `json:"min_font_size"`
	MaxFontSize         float64 `json:"max_font_size"`
	ColorScheme         string  `json:"color_scheme"`
	TextCase            string  `json:"text_case"`
	HighlightMultiplier int     `json:"highlight_multiplier"`
	FontFamily          string  `json:"font_family"`
	LetterSpacing       float64 `json:"letter_spacing"`
}

// ArtifactKeyOpts identifies one rendering of a layout.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	EmbedFont   bool    `json:"embed_font,omitempty"`
	PageMargin  float64 `json:"page_margin,omitempty"`
	WordSpacing float64 `json:"word_spacing,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(entriesHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key of a layout for a roster hash.
func (DefaultKeyer) LayoutKey(entriesHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", entriesHash, opts)
}

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
