package trend

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/models"
)

// Direction of a short series, decided by its last two points.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Stable Direction = "stable"
)

// ErrTooShort is returned for series with fewer than two points.
var ErrTooShort = errors.New("series needs at least two points")

// Result pairs the direction with the overall magnitude of the move.
type Result struct {
	Direction        Direction `json:"direction"`
	MagnitudePercent float64   `json:"magnitudePercent"`
}

// Classify reads the direction from the last two points and the magnitude
// from the full span: |last − first| / first × 100. A zero first value
// reports magnitude 0 rather than dividing by it.
func Classify(series []float64) (Result, error) {
	if len(series) < 2 {
		return Result{}, ErrTooShort
	}

	last, prev := series[len(series)-1], series[len(series)-2]
	dir := Stable
	switch {
	case last > prev:
		dir = Up
	case last < prev:
		dir = Down
	}

	first := series[0]
	magnitude := 0.0
	if first != 0 {
		magnitude = math.Abs(last-first) / first * 100
	}
	return Result{Direction: dir, MagnitudePercent: magnitude}, nil
}

// Generator produces synthetic historical series around an anchor price.
// The providers used give no true history, so these series exist purely for
// visual chart continuity; values are random within the spread and must not
// be read as measured data. The random source is injectable so tests can
// pin it.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Series returns n points ending now, stepped back by the given interval,
// each valued anchor × (1 + δ) with δ drawn uniformly from ±spreadPercent.
func (g *Generator) Series(anchor float64, n int, step time.Duration, spreadPercent float64) []models.HistoricalPoint {
	if n <= 0 {
		return nil
	}
	now := time.Now()
	spread := spreadPercent / 100

	points := make([]models.HistoricalPoint, n)
	for i := range points {
		delta := (g.rng.Float64()*2 - 1) * spread
		points[i] = models.HistoricalPoint{
			Timestamp: now.Add(-time.Duration(n-1-i) * step),
			Value:     anchor * (1 + delta),
		}
	}
	return points
}

// Values strips a generated series down to its numeric values for
// classification.
func Values(points []models.HistoricalPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
