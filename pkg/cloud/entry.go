package cloud

import (
	"slices"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Limits on the size of one placement pass. Counts saturate at MaxCount
// when names are imported or added; explicit values above it are rejected.
const (
	MaxCount               = 1000
	MaxHighlightMultiplier = 20
	MaxTokens              = 2000
)

// NameEntry is one distinct label contributed by the user.
type NameEntry struct {
	Label       string `json:"label"`
	Count       int    `json:"count"`
	Hidden      bool   `json:"hidden"`
	Highlighted bool   `json:"highlighted"`
}

// Stats summarizes a roster the way the names panel shows it.
type Stats struct {
	Total       int `json:"total"`
	Visible     int `json:"visible"`
	Highlighted int `json:"highlighted"`
}

// Roster is the ordered set of entries owned by a session.
// Labels are unique; order is first-seen order.
// The zero value is an empty roster ready to use.
type Roster struct {
	entries []NameEntry
	index   map[string]int
}

// NewRoster builds a roster from entries. See [Roster.Set].
func NewRoster(entries []NameEntry) *Roster {
	r := &Roster{}
	r.Set(entries)
	return r
}

// Entries returns a copy of the entries in roster order.
func (r *Roster) Entries() []NameEntry {
	return slices.Clone(r.entries)
}

// Len returns the number of distinct labels.
func (r *Roster) Len() int { return len(r.entries) }

// Get returns the entry for label.
func (r *Roster) Get(label string) (NameEntry, bool) {
	i, ok := r.index[label]
	if !ok {
		return NameEntry{}, false
	}
	return r.entries[i], true
}

// Set replaces the roster wholesale. Blank labels are dropped, duplicate
// labels are merged by summing their counts, counts are clamped to
// [1, MaxCount], and only the last highlighted entry keeps its flag.
// Use [ValidateEntries] first to reject out-of-range input instead.
func (r *Roster) Set(entries []NameEntry) {
	r.entries = nil
	r.index = make(map[string]int, len(entries))
	highlighted := -1
	for _, e := range entries {
		e.Label = strings.TrimSpace(e.Label)
		if e.Label == "" {
			continue
		}
		e.Count = min(max(e.Count, 1), MaxCount)
		if i, ok := r.index[e.Label]; ok {
			r.entries[i].Count = min(r.entries[i].Count+e.Count, MaxCount)
			r.entries[i].Hidden = r.entries[i].Hidden || e.Hidden
			if e.Highlighted {
				highlighted = i
			}
			continue
		}
		r.index[e.Label] = len(r.entries)
		if e.Highlighted {
			highlighted = len(r.entries)
		}
		r.entries = append(r.entries, e)
	}
	for i := range r.entries {
		r.entries[i].Highlighted = i == highlighted
	}
}

// Import replaces the roster with the distinct labels of an import.
// Duplicates collapse into one entry whose count is the number of
// occurrences. Labels already present keep their hidden and highlighted
// flags; labels missing from the import are dropped.
func (r *Roster) Import(labels []string) {
	prev := r.index
	old := r.entries

	r.entries = nil
	r.index = make(map[string]int, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if i, ok := r.index[label]; ok {
			r.entries[i].Count = min(r.entries[i].Count+1, MaxCount)
			continue
		}
		e := NameEntry{Label: label, Count: 1}
		if j, ok := prev[label]; ok {
			e.Hidden = old[j].Hidden
			e.Highlighted = old[j].Highlighted
		}
		r.index[label] = len(r.entries)
		r.entries = append(r.entries, e)
	}
}

// Add merges manually entered labels. An existing label has its count
// incremented; a new label is appended with count one.
func (r *Roster) Add(labels ...string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if i, ok := r.index[label]; ok {
			r.entries[i].Count = min(r.entries[i].Count+1, MaxCount)
			continue
		}
		r.index[label] = len(r.entries)
		r.entries = append(r.entries, NameEntry{Label: label, Count: 1})
	}
}

// ToggleHidden flips the hidden flag of label.
// It reports false if the label is unknown.
func (r *Roster) ToggleHidden(label string) bool {
	i, ok := r.index[label]
	if !ok {
		return false
	}
	r.entries[i].Hidden = !r.entries[i].Hidden
	return true
}

// ToggleHighlight makes label the only highlighted entry, or clears its
// highlight if it already was. It reports false if the label is unknown.
func (r *Roster) ToggleHighlight(label string) bool {
	i, ok := r.index[label]
	if !ok {
		return false
	}
	on := !r.entries[i].Highlighted
	for j := range r.entries {
		r.entries[j].Highlighted = false
	}
	r.entries[i].Highlighted = on
	return true
}

// Highlighted returns the highlighted label, if any.
func (r *Roster) Highlighted() (string, bool) {
	for _, e := range r.entries {
		if e.Highlighted {
			return e.Label, true
		}
	}
	return "", false
}

// Clear removes every entry.
func (r *Roster) Clear() {
	r.entries = nil
	r.index = make(map[string]int)
}

// Stats counts total, visible and highlighted entries.
func (r *Roster) Stats() Stats {
	s := Stats{Total: len(r.entries)}
	for _, e := range r.entries {
		if !e.Hidden {
			s.Visible++
		}
		if e.Highlighted {
			s.Highlighted++
		}
	}
	return s
}

// Sorted returns the entries ordered by label, as the names panel lists them.
func (r *Roster) Sorted() []NameEntry {
	out := r.Entries()
	slices.SortFunc(out, func(a, b NameEntry) int { return strings.Compare(a.Label, b.Label) })
	return out
}

// TokenCount returns how many tokens entries expand to under cfg. The
// count stops growing once it passes MaxTokens, so it never overflows.
func TokenCount(entries []NameEntry, cfg LayoutConfig) int {
	mult := min(max(cfg.HighlightMultiplier, 1), MaxHighlightMultiplier)
	total := 0
	for _, e := range entries {
		if e.Hidden {
			continue
		}
		total += tokensFor(e, mult)
		if total > MaxTokens {
			break
		}
	}
	return total
}

// ValidateEntries rejects entries a placement pass cannot handle: a count
// above MaxCount, or more than MaxTokens tokens in total.
func ValidateEntries(entries []NameEntry, cfg LayoutConfig) error {
	for _, e := range entries {
		if e.Count > MaxCount {
			return errors.New(errors.ErrCodeInvalidInput, "count of %q is %d, at most %d allowed", e.Label, e.Count, MaxCount)
		}
	}
	if n := TokenCount(entries, cfg); n > MaxTokens {
		return errors.New(errors.ErrCodeInvalidInput, "roster expands to more than %d words", MaxTokens)
	}
	return nil
}
