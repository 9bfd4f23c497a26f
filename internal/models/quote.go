package models

import "time"

// InstrumentQuote is one provider's price for one instrument at one instant.
// Selling is always quoted in TRY per unit of the instrument; Buying is zero
// for providers that only expose one side.
type InstrumentQuote struct {
	Code          string    `json:"code"`
	Buying        float64   `json:"buying,omitempty"`
	Selling       float64   `json:"selling"`
	ChangePercent float64   `json:"changePercent"`
	AsOf          time.Time `json:"asOf"`
}

// Snapshot is the full set of quotes captured in one poll cycle. A snapshot
// is never mutated after capture; each cycle replaces it wholesale.
type Snapshot struct {
	Quotes map[string]InstrumentQuote `json:"quotes"`
	AsOf   time.Time                  `json:"asOf"`
}

// Quote looks up one instrument in the snapshot.
func (s *Snapshot) Quote(code string) (InstrumentQuote, bool) {
	if s == nil || s.Quotes == nil {
		return InstrumentQuote{}, false
	}
	q, ok := s.Quotes[code]
	return q, ok
}

// HistoricalPoint is a single chart point. The providers used expose no true
// history, so series of these are synthesized around the current price for
// display continuity only — they are never measured data.
type HistoricalPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
