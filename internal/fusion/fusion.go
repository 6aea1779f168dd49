package fusion

import (
	"sort"

	"github.com/velowise/velowise-api/internal/domain"
)

// Signals groups the four partial-score lists in their blend order. The
// order is part of the engine's observable behavior: an item first seen by
// a late signal enters at that signal's raw score with no blending.
type Signals struct {
	Preference    []domain.PartialScore
	PeerAffinity  []domain.PartialScore
	LocalityTrend []domain.PartialScore
	Affordability []domain.PartialScore
}

type entry struct {
	score   float64
	reasons []string
}

// Fuse merges the signal lists into one ranked list, resolves item ids
// against the catalog, and truncates to limit (limit <= 0 means no cap).
// Ties sort stably: the item seen first across the blend order wins.
func Fuse(s Signals, items []domain.CatalogItem, limit int) []domain.ScoredResult {
	byID := make(map[string]*entry)
	var order []string

	seed := func(ps domain.PartialScore) {
		byID[ps.ItemID] = &entry{score: ps.Score, reasons: append([]string(nil), ps.Reasons...)}
		order = append(order, ps.ItemID)
	}

	// 1. Preference match seeds the working set verbatim.
	for _, ps := range s.Preference {
		seed(ps)
	}

	// 2. Peer affinity blends by plain average.
	for _, ps := range s.PeerAffinity {
		if e, ok := byID[ps.ItemID]; ok {
			e.score = (e.score + ps.Score) / 2
			e.reasons = append(e.reasons, ps.Reasons...)
		} else {
			seed(ps)
		}
	}

	// 3. Locality trend blends 70/30.
	for _, ps := range s.LocalityTrend {
		if e, ok := byID[ps.ItemID]; ok {
			e.score = e.score*0.7 + ps.Score*0.3
			e.reasons = append(e.reasons, ps.Reasons...)
		} else {
			seed(ps)
		}
	}

	// 4. Affordability blends 80/20.
	for _, ps := range s.Affordability {
		if e, ok := byID[ps.ItemID]; ok {
			e.score = e.score*0.8 + ps.Score*0.2
			e.reasons = append(e.reasons, ps.Reasons...)
		} else {
			seed(ps)
		}
	}

	catalog := make(map[string]domain.CatalogItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}

	results := make([]domain.ScoredResult, 0, len(order))
	for _, id := range order {
		item, ok := catalog[id]
		if !ok {
			// A signal referenced an item the catalog no longer lists
			// (e.g. a peer favorite of a delisted bike). Skip it.
			continue
		}
		e := byID[id]
		results = append(results, domain.ScoredResult{
			Item:       item,
			Score:      e.score,
			Reasons:    e.reasons,
			Confidence: domain.ConfidenceFromScore(e.score),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
