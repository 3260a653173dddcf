package searchvec

import "sort"

// Tier identifies the priority band a token was indexed under. Lower
// values rank higher: a tier A match must outrank an otherwise-equal
// match confined to tier D.
type Tier uint8

const (
	// TierA is the highest priority band and holds title text.
	TierA Tier = iota + 1

	// TierB holds summary text and tags, which carry equal weight.
	TierB

	// TierC holds description text.
	TierC

	// TierD is the lowest priority band and holds the aggregated
	// keyword bag (category / status / country / instructor name etc).
	TierD
)

// Weight returns the ranking weight assigned to the tier. Weights
// decrease geometrically so a single higher-tier match always outranks
// a lower-tier one.
func (t Tier) Weight() float64 {
	switch t {
	case TierA:
		return 8
	case TierB:
		return 4
	case TierC:
		return 2
	case TierD:
		return 1
	}

	return 0
}

// Posting pairs a token with the tier it was extracted from.
type Posting struct {
	Token string
	Tier  Tier
}

// Vector is a tiered token index: each token maps to the strongest tier
// it appeared in. The concrete representation is opaque to callers and
// produced only by Build / Merge.
type Vector map[string]Tier

// TierOf returns the tier the token was indexed under.
func (v Vector) TierOf(token string) (Tier, bool) {
	tier, exists := v[token]

	return tier, exists
}

// Score returns the ranking weight of token in the vector, or 0 when
// the token is absent.
func (v Vector) Score(token string) float64 {
	tier, exists := v[token]
	if !exists {
		return 0
	}

	return tier.Weight()
}

// TierTokens returns the tokens indexed under the given tier in sorted
// order.
func (v Vector) TierTokens(tier Tier) []string {
	var tokens []string
	for token, t := range v {
		if t == tier {
			tokens = append(tokens, token)
		}
	}

	sort.Strings(tokens)

	return tokens
}

// Merge folds posting lists into a single vector. A token that appears
// in several tiers keeps the strongest one.
func Merge(lists ...[]Posting) Vector {
	v := make(Vector)
	for _, list := range lists {
		for _, p := range list {
			if existing, exists := v[p.Token]; exists && existing <= p.Tier {
				continue
			}

			v[p.Token] = p.Tier
		}
	}

	return v
}

// Build produces the weighted token index for a document. Each input is
// tokenized independently into its tier and the results are merged.
// Empty inputs contribute nothing. Relevance weighting is decided here
// and nowhere else: callers must pass unweighted text.
func Build(title, summary, description string, tags, keywords []string) Vector {
	lists := [][]Posting{
		Tokenize(title, TierA),
		Tokenize(summary, TierB),
		Tokenize(description, TierC),
	}

	for _, tag := range tags {
		lists = append(lists, Tokenize(tag, TierB))
	}

	for _, keyword := range keywords {
		lists = append(lists, Tokenize(keyword, TierD))
	}

	return Merge(lists...)
}
