package cloud

import (
	"math/rand/v2"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderToken is one rendering instance of an entry.
type RenderToken struct {
	Text   string
	Weight float64
}

// Labels are French first names; casing follows French rules.
// Casers are stateful, so each call builds its own.
func upper() cases.Caser { return cases.Upper(language.French) }
func lower() cases.Caser { return cases.Lower(language.French) }

// ApplyCase transforms label according to tc. Unknown cases leave it as is.
func ApplyCase(label string, tc TextCase) string {
	switch tc {
	case CaseUpper:
		return upper().String(label)
	case CaseLower:
		return lower().String(label)
	case CaseCapitalized:
		if label == "" {
			return label
		}
		_, n := utf8.DecodeRuneInString(label)
		return upper().String(label[:n]) + lower().String(label[n:])
	default:
		return label
	}
}

// Expand turns the visible entries into a shuffled token sequence.
// Hidden entries contribute nothing; a highlighted entry contributes
// Count*HighlightMultiplier tokens, with Count capped at MaxCount and the
// multiplier at MaxHighlightMultiplier. The whole multiset is shuffled
// with rng so repeats of one label do not cluster.
func Expand(entries []NameEntry, cfg LayoutConfig, rng *rand.Rand) []RenderToken {
	mult := min(max(cfg.HighlightMultiplier, 1), MaxHighlightMultiplier)

	var tokens []RenderToken
	for _, e := range entries {
		if e.Hidden {
			continue
		}
		n := tokensFor(e, mult)
		text := ApplyCase(e.Label, cfg.TextCase)
		for range n {
			tokens = append(tokens, RenderToken{Text: text, Weight: 1.0})
		}
	}

	rng.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})
	return tokens
}

func tokensFor(e NameEntry, mult int) int {
	n := min(max(e.Count, 1), MaxCount)
	if e.Highlighted {
		n *= mult
	}
	return n
}
