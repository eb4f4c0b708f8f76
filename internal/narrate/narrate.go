// Package narrate turns heterogeneous service payloads into a single
// human-readable summary plus compact structured fragments. Everything
// here is pure: no I/O, no state, same input always yields same output.
package narrate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/calebmorse/healthdesk/internal/api"
)

const (
	maxSideEffects = 8
	maxFoods       = 3

	medicineDisclaimer = "This information is drawn from adverse event reports and is not medical advice; consult a healthcare professional."
)

// Summary derives a display-ready narrative from a payload. Rules are
// tried in order and the first one that yields non-empty text wins:
//
//  1. facts.summary
//  2. top-level summary
//  3. top-level reply
//  4. a template keyed by the facts tag (or top-level type)
//  5. top-level message
//
// An empty string means the payload carries nothing narratable and the
// caller should hide the summary entirely.
func Summary(p *api.ResponsePayload) string {
	if p == nil {
		return ""
	}

	if p.Facts != nil {
		if s := strings.TrimSpace(p.Facts.Summary); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(p.Summary); s != "" {
		return s
	}
	if s := strings.TrimSpace(p.Reply); s != "" {
		return s
	}

	if s := tagSummary(p); s != "" {
		return s
	}

	return strings.TrimSpace(p.Message)
}

// tagSummary renders the tag-keyed templates. Unknown tags yield "".
func tagSummary(p *api.ResponsePayload) string {
	tag := p.Facts.Tag()
	if tag == "" {
		tag = p.Type
	}

	data := factsData(p)

	switch {
	case tag == "covid_cases":
		return covidCases(data)
	case tag == "covid_all":
		return covidAll(data)
	case tag == "medicine_side_effects":
		return medicineSideEffects(data)
	case tag == "us_flu_ili":
		return fluSeries(p)
	case strings.HasPrefix(tag, "worldbank"):
		return worldBank(data)
	case tag == "us_nutrition":
		return nutrition(p)
	}
	return ""
}

func factsData(p *api.ResponsePayload) *api.FactsData {
	if p.Facts != nil && p.Facts.Data != nil {
		return p.Facts.Data
	}
	return p.Data
}

func region(d *api.FactsData) string {
	if d == nil {
		return ""
	}
	if d.Country != "" {
		return d.Country
	}
	return d.Region
}

func covidCases(d *api.FactsData) string {
	var b strings.Builder
	if r := region(d); r != "" {
		b.WriteString(r)
		b.WriteString(" — ")
	}
	var cases, today *api.FlexNumber
	if d != nil {
		cases, today = d.Cases, d.TodayCases
	}
	b.WriteString(FormatNumber(cases))
	b.WriteString(" total COVID cases (")
	b.WriteString(FormatNumber(today))
	b.WriteString(" today).")
	return b.String()
}

func covidAll(d *api.FactsData) string {
	var parts []string

	subject := "The region"
	if r := region(d); r != "" {
		subject = r
	}

	var cases, deaths, todayCases, todayDeaths, recovered, active, tests *api.FlexNumber
	if d != nil {
		cases, deaths = d.Cases, d.Deaths
		todayCases, todayDeaths = d.TodayCases, d.TodayDeaths
		recovered, active = d.Recovered, d.Active
		tests = d.Tests
	}

	parts = append(parts,
		subject+" has recorded "+FormatNumber(cases)+" total COVID cases and "+FormatNumber(deaths)+" deaths.")

	tc, tcOK := todayCases.Float()
	td, tdOK := todayDeaths.Float()
	switch {
	case (tcOK && tc != 0) || (tdOK && td != 0):
		parts = append(parts,
			FormatNumber(todayCases)+" new cases and "+FormatNumber(todayDeaths)+" new deaths were reported today.")
	case tcOK || tdOK:
		parts = append(parts, "No new cases or deaths were reported today.")
	}

	if recovered != nil || active != nil {
		parts = append(parts,
			FormatNumber(recovered)+" people have recovered and "+FormatNumber(active)+" cases remain active.")
	}
	if tests != nil {
		parts = append(parts, FormatNumber(tests)+" tests have been administered.")
	}

	return strings.Join(parts, " ")
}

func medicineSideEffects(d *api.FactsData) string {
	var effects []string
	if d != nil {
		effects = d.SideEffects
	}
	if len(effects) == 0 {
		return "No common side effects are available for this medicine. " + medicineDisclaimer
	}

	shown := effects
	if len(shown) > maxSideEffects {
		shown = shown[:maxSideEffects]
	}
	capped := make([]string, len(shown))
	for i, e := range shown {
		capped[i] = capitalize(strings.TrimSpace(e))
	}

	prefix := "Commonly reported side effects"
	if d != nil && d.Medicine != "" {
		prefix += " for " + d.Medicine
	}
	return prefix + " include: " + strings.Join(capped, ", ") + ". " + medicineDisclaimer
}

func fluSeries(p *api.ResponsePayload) string {
	series := seriesOf(p)
	if len(series) == 0 {
		return "US influenza-like illness series retrieved."
	}
	last := series[len(series)-1]
	unit := ""
	if p.Facts != nil && p.Facts.Unit != "" {
		unit = " " + p.Facts.Unit
	}
	return "Latest US influenza-like illness level: " + FormatNumber(last.Value) + unit + " (" + last.Date + ")."
}

func worldBank(d *api.FactsData) string {
	title := "World Bank indicator"
	if d != nil {
		if d.Title != "" {
			title = d.Title
		} else if d.Indicator != "" {
			title = d.Indicator
		}
	}

	var b strings.Builder
	if d != nil && d.Latest != nil {
		b.WriteString(title)
		b.WriteString(": latest value ")
		b.WriteString(FormatNumber(d.Latest.Value))
		if d.Latest.Year != "" {
			b.WriteString(" (")
			b.WriteString(d.Latest.Year)
			b.WriteString(")")
		}
		b.WriteString(".")
	} else {
		b.WriteString(title)
		b.WriteString(": data retrieved, see the series below.")
	}

	if d != nil {
		if pct, ok := d.ChangePct.Float(); ok {
			switch {
			case pct > 0:
				b.WriteString(" It is up ")
				b.WriteString(FormatNumber(d.ChangePct))
				b.WriteString("% across the series.")
			case pct < 0:
				b.WriteString(" It is down ")
				b.WriteString(FormatNumber(api.Num(-pct)))
				b.WriteString("% across the series.")
			default:
				b.WriteString(" It is unchanged across the series.")
			}
		}
	}

	return b.String()
}

func nutrition(p *api.ResponsePayload) string {
	var foods []api.NutritionFood
	if p.Facts != nil && len(p.Facts.Results) > 0 {
		foods = p.Facts.Results
	} else {
		foods = p.Results
	}

	var names []string
	for _, f := range foods {
		name := strings.TrimSpace(f.FoodName)
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) == maxFoods {
			break
		}
	}

	if len(names) == 0 {
		return "No foods found, try simpler terms."
	}
	return "Top matching foods: " + strings.Join(names, ", ") + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
