package narrate

import "github.com/calebmorse/healthdesk/internal/api"

// DefaultWindow is how many trailing series points the UI shows inline.
const DefaultWindow = 3

// LastPoints extracts the trailing k points of whatever time series the
// payload carries, in original order. A missing or short series yields
// whatever is there, without padding and without error.
func LastPoints(p *api.ResponsePayload, k int) []api.SeriesPoint {
	if p == nil || k <= 0 {
		return nil
	}
	series := seriesOf(p)
	if len(series) == 0 {
		return nil
	}
	if len(series) > k {
		series = series[len(series)-k:]
	}
	out := make([]api.SeriesPoint, len(series))
	copy(out, series)
	return out
}

// seriesOf finds the series at the known payload paths, nearest first.
func seriesOf(p *api.ResponsePayload) []api.SeriesPoint {
	if p.Facts != nil {
		if len(p.Facts.Series) > 0 {
			return p.Facts.Series
		}
		if p.Facts.Data != nil && len(p.Facts.Data.Series) > 0 {
			return p.Facts.Data.Series
		}
	}
	if len(p.Series) > 0 {
		return p.Series
	}
	if p.Data != nil && len(p.Data.Series) > 0 {
		return p.Data.Series
	}
	return nil
}
