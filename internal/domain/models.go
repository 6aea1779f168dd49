package domain

import "time"

// CatalogItem is a single e-bike listing as supplied by the catalog store.
// The engine treats it as immutable; optional spec fields are nil when the
// dealer did not provide them.
type CatalogItem struct {
	ID        string   `json:"id"`
	Brand     string   `json:"brand"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	RangeKm   *float64 `json:"range_km,omitempty"`
	BatteryWh *float64 `json:"battery_wh,omitempty"`
	WeightKg  *float64 `json:"weight_kg,omitempty"`
	Colors    []string `json:"colors,omitempty"`
}

// UserPreferences holds the declared search preferences of a user.
// Bound fields are nil when unset; out-of-range values are normalized to nil
// before scoring (see RecommendationContext.Sanitize).
type UserPreferences struct {
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	PreferredBrands     []string `json:"preferred_brands,omitempty"`
	PreferredColors     []string `json:"preferred_colors,omitempty"`
	MaxPrice            *float64 `json:"max_price,omitempty"`
	MaxWeight           *float64 `json:"max_weight,omitempty"`
	MinRange            *float64 `json:"min_range,omitempty"`
}

// Location is a coarse geolocation (city/province granularity).
type Location struct {
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
}

// ActivityType labels one entry in a user's recent activity stream.
type ActivityType string

const (
	ActivityView     ActivityType = "view"
	ActivityFavorite ActivityType = "favorite"
	ActivitySearch   ActivityType = "search"
)

// ActivityEvent is one recent user action, newest first in the context list.
type ActivityEvent struct {
	Type   ActivityType `json:"type"`
	ItemID string       `json:"item_id,omitempty"`
	At     time.Time    `json:"at"`
}

// RecommendationContext is the per-request snapshot of everything known
// about the requesting user. Every field is optional; an empty context
// produces an empty recommendation list.
type RecommendationContext struct {
	UserID         string
	Preferences    *UserPreferences
	Location       *Location
	RecentActivity []ActivityEvent
}

// Sanitize normalizes malformed preference bounds to absent so that every
// scorer sees the same view: a negative max price, a non-positive max weight
// or min range each drop only that bound, never the whole request.
func (rc *RecommendationContext) Sanitize() {
	if rc == nil || rc.Preferences == nil {
		return
	}
	p := rc.Preferences
	if p.MaxPrice != nil && *p.MaxPrice <= 0 {
		p.MaxPrice = nil
	}
	if p.MaxWeight != nil && *p.MaxWeight <= 0 {
		p.MaxWeight = nil
	}
	if p.MinRange != nil && *p.MinRange <= 0 {
		p.MinRange = nil
	}
}

// PartialScore is the unit of signal scorer output: one item with a strictly
// positive partial score and the reasons that produced it. Items a signal
// has nothing to say about are omitted entirely, which downstream fusion
// relies on to distinguish "not scored" from "scored zero".
type PartialScore struct {
	ItemID     string
	Score      float64
	Reasons    []string
	Confidence float64
}

// ScoredResult is the engine's output unit: a catalog item with its fused
// score, the accumulated explanation strings, and a confidence derived from
// the score.
type ScoredResult struct {
	Item       CatalogItem `json:"item"`
	Score      float64     `json:"score"`
	Reasons    []string    `json:"reasons"`
	Confidence float64     `json:"confidence"`
}

// ConfidenceFromScore maps a score into [0,1] confidence. Shared by the
// preference scorer and the fusion stage.
func ConfidenceFromScore(score float64) float64 {
	c := score * 2
	if c > 1 {
		c = 1
	}
	return c
}

// ViewEvent is one row of the analytics view feed: which item was viewed
// and where the viewer was at the time.
type ViewEvent struct {
	ItemID   string
	Location Location
	At       time.Time
}
