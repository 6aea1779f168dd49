package intent

import "strings"

// Intent is a coarse label for what a free-text query is after.
type Intent string

const (
	IntentBudgetSearch  Intent = "budget_search"
	IntentMountainBike  Intent = "mountain_bike"
	IntentCommuteBike   Intent = "commute_bike"
	IntentLongRange     Intent = "long_range"
	IntentGeneralSearch Intent = "general_search"
)

// Filters are the suggested catalog filters for a classified query.
type Filters struct {
	Category string   `json:"category,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	MinRange *float64 `json:"min_range,omitempty"`
}

// Classification is the classifier output: a fixed-confidence intent label
// with its suggested filters.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Filters    Filters `json:"suggested_filters"`
}

// Entry maps one intent to its keyword list, fixed confidence and filters.
// Keywords must be lowercase; matching is substring containment.
type Entry struct {
	Intent     Intent
	Keywords   []string
	Confidence float64
	Filters    Filters
}

// Table is a versioned keyword table. Entries are tried in order and the
// first match wins, so more specific intents belong earlier.
type Table struct {
	Version string
	Entries []Entry
}

func f64(v float64) *float64 { return &v }

// DefaultTable is the shipped Dutch/English keyword configuration. Kept as
// one value (not literals scattered through code) so the rule-based nature
// stays auditable and a localized table can be swapped in.
var DefaultTable = Table{
	Version: "2024-06",
	Entries: []Entry{
		{
			Intent:     IntentBudgetSearch,
			Keywords:   []string{"goedkoop", "budget", "betaalbaar", "voordelig", "cheap", "affordable"},
			Confidence: 0.9,
			Filters:    Filters{MaxPrice: f64(1500)},
		},
		{
			Intent:     IntentMountainBike,
			Keywords:   []string{"mountain", "mtb", "trail", "offroad", "terrein"},
			Confidence: 0.85,
			Filters:    Filters{Category: "mountain"},
		},
		{
			Intent:     IntentCommuteBike,
			Keywords:   []string{"woon-werk", "commute", "forens", "stad", "city"},
			Confidence: 0.85,
			Filters:    Filters{Category: "city"},
		},
		{
			Intent:     IntentLongRange,
			Keywords:   []string{"actieradius", "lange afstand", "long range", "long distance", "grote accu"},
			Confidence: 0.8,
			Filters:    Filters{MinRange: f64(80)},
		},
	},
}

// Classifier maps free-text queries to intents by keyword containment.
// Deliberately not NLP: the table is the whole model.
type Classifier struct {
	table Table
}

// NewClassifier creates a classifier over the given table; pass
// DefaultTable for the shipped configuration.
func NewClassifier(table Table) *Classifier {
	return &Classifier{table: table}
}

// Classify lowercases the query and returns the first intent whose keyword
// list matches. No match yields general_search with low confidence and no
// filters.
func (c *Classifier) Classify(query string) Classification {
	q := strings.ToLower(query)

	for _, e := range c.table.Entries {
		if containsAny(q, e.Keywords...) {
			return Classification{
				Intent:     e.Intent,
				Confidence: e.Confidence,
				Filters:    e.Filters,
			}
		}
	}

	return Classification{Intent: IntentGeneralSearch, Confidence: 0.3}
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
