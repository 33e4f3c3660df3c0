package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/ranking"
)

func fare(day string, price float64) models.DayFare {
	return models.DayFare{Day: day, Price: &models.Price{Value: price, CurrencyCode: "EUR"}}
}

func TestLevels(t *testing.T) {
	fares := []models.DayFare{
		fare("2024-03-10", 10),
		fare("2024-03-11", 40),
		fare("2024-03-12", 50),
		fare("2024-03-13", 100),
		{Day: "2024-03-14", Unavailable: true},
	}

	levels := ranking.Levels(fares)

	assert.Equal(t, ranking.LevelCheap, levels["2024-03-10"])
	assert.Equal(t, ranking.LevelCheap, levels["2024-03-11"])
	assert.Equal(t, ranking.LevelAverage, levels["2024-03-12"])
	assert.Equal(t, ranking.LevelExpensive, levels["2024-03-13"])
	assert.NotContains(t, levels, "2024-03-14")
}

func TestBandWithSinglePrice(t *testing.T) {
	band, ok := ranking.NewBand([]models.DayFare{fare("2024-03-10", 25), fare("2024-03-11", 25)})
	require.True(t, ok)
	assert.Equal(t, 0.0, band.Position(25))
	assert.Equal(t, ranking.LevelCheap, band.Level(fare("2024-03-10", 25)))
}

func TestBandWithoutBookableDays(t *testing.T) {
	_, ok := ranking.NewBand([]models.DayFare{{Day: "2024-03-10", SoldOut: true}})
	assert.False(t, ok)
	assert.Empty(t, ranking.Levels(nil))
}
