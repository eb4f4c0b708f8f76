package api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ResponsePayload is the envelope returned by the assistant service.
// The service emits several envelope kinds distinguished by Type
// ("retrieval", "search", "chat", "report", "blocked"); older agents
// also return flat payloads carrying the facts fields at the top level.
// The client only consumes these shapes, it never constructs them.
type ResponsePayload struct {
	Type    string `json:"type,omitempty"`
	Summary string `json:"summary,omitempty"`
	Reply   string `json:"reply,omitempty"`
	Message string `json:"message,omitempty"`

	Facts *Facts `json:"facts,omitempty"`

	// Flat variants place the facts fields directly on the envelope.
	Data    *FactsData      `json:"data,omitempty"`
	Series  []SeriesPoint   `json:"series,omitempty"`
	Results []NutritionFood `json:"results,omitempty"`

	Items   []ReferenceItem `json:"items,omitempty"`
	Sources []Source        `json:"sources,omitempty"`

	// Report envelopes.
	Visuals    []string `json:"visuals,omitempty"`
	ReportURL  string   `json:"report_url,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
	Disclaimer string   `json:"disclaimer,omitempty"`
}

// Facts is the normalized sub-payload produced by the retrieval adapters.
// Its tag lives in Type; a few older adapters used Topic instead.
type Facts struct {
	Type    string `json:"type,omitempty"`
	Topic   string `json:"topic,omitempty"`
	Summary string `json:"summary,omitempty"`
	Unit    string `json:"unit,omitempty"`

	Data    *FactsData      `json:"data,omitempty"`
	Series  []SeriesPoint   `json:"series,omitempty"`
	Results []NutritionFood `json:"results,omitempty"`
}

// Tag returns the facts tag, preferring Type over the legacy Topic key.
func (f *Facts) Tag() string {
	if f == nil {
		return ""
	}
	if f.Type != "" {
		return f.Type
	}
	return f.Topic
}

// FactsData carries the tag-specific fields. All known tags share this
// struct; absent fields stay nil so formatters can tell "missing" from zero.
type FactsData struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`

	Cases       *FlexNumber `json:"cases,omitempty"`
	TodayCases  *FlexNumber `json:"todayCases,omitempty"`
	Deaths      *FlexNumber `json:"deaths,omitempty"`
	TodayDeaths *FlexNumber `json:"todayDeaths,omitempty"`
	Recovered   *FlexNumber `json:"recovered,omitempty"`
	Active      *FlexNumber `json:"active,omitempty"`
	Tests       *FlexNumber `json:"tests,omitempty"`

	Medicine    string   `json:"medicine,omitempty"`
	SideEffects []string `json:"side_effects,omitempty"`

	Indicator string        `json:"indicator,omitempty"`
	Title     string        `json:"title,omitempty"`
	Series    []SeriesPoint `json:"series,omitempty"`
	ChangePct *FlexNumber   `json:"change_pct,omitempty"`
	Latest    *LatestValue  `json:"latest,omitempty"`
}

// LatestValue is the most recent non-zero observation of an indicator.
type LatestValue struct {
	Year  string      `json:"year"`
	Value *FlexNumber `json:"value"`
}

// SeriesPoint is one observation of a time series, oldest first.
type SeriesPoint struct {
	Date  string      `json:"date"`
	Value *FlexNumber `json:"value"`
}

// NutritionFood is one food hit from the nutrition adapter.
type NutritionFood struct {
	FoodName string `json:"food_name"`
}

// ReferenceItem is one ranked reference link. The first item in a
// resolved list is the "top" result used by quick-open.
type ReferenceItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url"`
	Source  string `json:"source,omitempty"`
}

// Source is an inline source chip.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ChatTurn is one prior exchange sent along with a chat message.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FlexNumber decodes a JSON number, a string-encoded number, or null.
// The service is inconsistent here: counts arrive as numbers from some
// agents and as strings from others, and null means "not reported".
type FlexNumber struct {
	Valid bool    // a numeric value was present
	Value float64 // meaningful only when Valid
	Raw   string  // original text of a non-numeric string
}

// Num is a convenience constructor for tests and fixtures.
func Num(v float64) *FlexNumber {
	return &FlexNumber{Valid: true, Value: v}
}

// Float returns the numeric value and whether one is present.
func (n *FlexNumber) Float() (float64, bool) {
	if n == nil || !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return 0, false
	}
	return n.Value, true
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = FlexNumber{}
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		cleaned := strings.ReplaceAll(strings.TrimSpace(str), ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil && cleaned != "" {
			*n = FlexNumber{Valid: true, Value: v}
		} else {
			*n = FlexNumber{Raw: str}
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = FlexNumber{Valid: true, Value: v}
	return nil
}

// MarshalJSON implements json.Marshaler, mainly so fixtures round-trip.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Value)
	}
	if n.Raw != "" {
		return json.Marshal(n.Raw)
	}
	return []byte("null"), nil
}
