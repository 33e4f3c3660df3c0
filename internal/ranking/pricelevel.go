package ranking

import (
	"math"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

type PriceLevel string

const (
	LevelNone      PriceLevel = ""
	LevelCheap     PriceLevel = "cheap"
	LevelAverage   PriceLevel = "average"
	LevelExpensive PriceLevel = "expensive"
)

const (
	CheapShare     = 1.0 / 3
	ExpensiveShare = 2.0 / 3
)

// Band is the price range of the bookable days of a series.
type Band struct {
	Min float64
	Max float64
}

func NewBand(fares []models.DayFare) (Band, bool) {
	minPrice := findMinPrice(fares)
	maxPrice := findMaxPrice(fares)
	if math.IsInf(minPrice, 1) {
		return Band{}, false
	}
	return Band{Min: minPrice, Max: maxPrice}, true
}

// Position places price in the band: 0 at the minimum, 1 at the maximum.
func (b Band) Position(price float64) float64 {
	if b.Max <= b.Min {
		return 0
	}
	pos := (price - b.Min) / (b.Max - b.Min)
	return math.Round(math.Max(0, math.Min(1, pos))*100) / 100
}

// Level classifies a day relative to the band. Days that cannot be booked
// have no level.
func (b Band) Level(f models.DayFare) PriceLevel {
	if !f.Bookable() {
		return LevelNone
	}
	pos := b.Position(f.Price.Value)
	switch {
	case pos <= CheapShare:
		return LevelCheap
	case pos < ExpensiveShare:
		return LevelAverage
	default:
		return LevelExpensive
	}
}

// Levels classifies every day of fares by its calendar day.
func Levels(fares []models.DayFare) map[string]PriceLevel {
	levels := make(map[string]PriceLevel, len(fares))
	band, ok := NewBand(fares)
	if !ok {
		return levels
	}
	for _, f := range fares {
		if level := band.Level(f); level != LevelNone {
			levels[f.Day] = level
		}
	}
	return levels
}

func findMinPrice(fares []models.DayFare) float64 {
	minPrice := math.Inf(1)
	for _, f := range fares {
		if f.Bookable() && f.Price.Value < minPrice {
			minPrice = f.Price.Value
		}
	}
	return minPrice
}

func findMaxPrice(fares []models.DayFare) float64 {
	maxPrice := 0.0
	for _, f := range fares {
		if f.Bookable() && f.Price.Value > maxPrice {
			maxPrice = f.Price.Value
		}
	}
	return maxPrice
}
