package narrate

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/calebmorse/healthdesk/internal/api"
)

// Placeholder rendered for absent or null numeric fields. The service
// sometimes reports null counts; those must never surface as "NaN" or
// "undefined" in user-facing text.
const missingValue = "—"

var printer = message.NewPrinter(language.English)

// FormatNumber renders a flexible numeric field for display: missing or
// null values become an em-dash, numeric values get locale thousands
// separators, and non-numeric strings pass through unchanged.
func FormatNumber(n *api.FlexNumber) string {
	if n == nil {
		return missingValue
	}
	if !n.Valid {
		if n.Raw != "" {
			return n.Raw
		}
		return missingValue
	}
	if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return missingValue
	}
	if n.Value == math.Trunc(n.Value) && math.Abs(n.Value) < 1e15 {
		return printer.Sprintf("%d", int64(n.Value))
	}
	return printer.Sprintf("%.1f", n.Value)
}
