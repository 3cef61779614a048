package session

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

// NameState is the persisted state of one label.
type NameState struct {
	Hidden      bool `json:"hidden"`
	Highlighted bool `json:"highlighted"`
	Count       int  `json:"count"`
}

// Record is the persisted form of a session.
type Record struct {
	Settings   cloud.LayoutConfig   `json:"settings"`
	NameStates map[string]NameState `json:"nameStates"`
	CSVData    string               `json:"csvData"`
	Seed       uint64               `json:"seed,omitempty"`

	// Order lists labels in roster order; nameStates alone is unordered.
	Order []string `json:"order,omitempty"`
}

// State is a snapshot of everything a layout pass depends on.
type State struct {
	Entries []cloud.NameEntry  `json:"entries"`
	Config  cloud.LayoutConfig `json:"config"`
	Seed    uint64             `json:"seed"`
	CSV     string             `json:"csv,omitempty"`
}

// NewRecord builds the persisted form of st.
func NewRecord(st State) Record {
	rec := Record{
		Settings:   st.Config,
		NameStates: make(map[string]NameState, len(st.Entries)),
		CSVData:    st.CSV,
		Seed:       st.Seed,
		Order:      make([]string, 0, len(st.Entries)),
	}
	for _, e := range st.Entries {
		rec.NameStates[e.Label] = NameState{Hidden: e.Hidden, Highlighted: e.Highlighted, Count: e.Count}
		rec.Order = append(rec.Order, e.Label)
	}
	return rec
}

// State rebuilds session state from the record. Settings are merged over
// the defaults; labels missing from Order follow in sorted order.
func (rec Record) State() State {
	st := State{
		Config: rec.Settings.Merge(cloud.DefaultConfig()).Normalize(),
		Seed:   rec.Seed,
		CSV:    rec.CSVData,
	}
	if st.Config.Validate() != nil {
		st.Config = cloud.DefaultConfig()
	}

	seen := make(map[string]bool, len(rec.NameStates))
	add := func(label string) {
		ns, ok := rec.NameStates[label]
		if !ok || seen[label] {
			return
		}
		seen[label] = true
		st.Entries = append(st.Entries, cloud.NameEntry{
			Label:       label,
			Count:       ns.Count,
			Hidden:      ns.Hidden,
			Highlighted: ns.Highlighted,
		})
	}
	for _, label := range rec.Order {
		add(label)
	}
	rest := make([]string, 0, len(rec.NameStates))
	for label := range rec.NameStates {
		if !seen[label] {
			rest = append(rest, label)
		}
	}
	slices.Sort(rest)
	for _, label := range rest {
		add(label)
	}

	// Roster.Set enforces unique labels, positive counts and a single highlight.
	st.Entries = cloud.NewRoster(st.Entries).Entries()
	return st
}

// EncodeRecord serializes a record.
func EncodeRecord(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode session record")
	}
	return data, nil
}

// DecodeRecord parses a stored record.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode session record")
	}
	return rec, nil
}
