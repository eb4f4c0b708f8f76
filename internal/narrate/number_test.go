package narrate

import (
	"math"
	"testing"

	"github.com/calebmorse/healthdesk/internal/api"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		in   *api.FlexNumber
		want string
	}{
		{"nil pointer", nil, "—"},
		{"null value", &api.FlexNumber{}, "—"},
		{"zero", api.Num(0), "0"},
		{"small integer", api.Num(42), "42"},
		{"grouped thousands", api.Num(1200000), "1,200,000"},
		{"negative grouped", api.Num(-44690), "-44,690"},
		{"fractional one decimal", api.Num(3.456), "3.5"},
		{"nan", api.Num(math.NaN()), "—"},
		{"positive infinity", api.Num(math.Inf(1)), "—"},
		{"non-numeric raw passthrough", &api.FlexNumber{Raw: "suppressed"}, "suppressed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}
