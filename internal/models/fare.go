package models

const DefaultCurrency = "EUR"

type Price struct {
	Value        float64 `json:"value"`
	CurrencyCode string  `json:"currencyCode"`
}

// DayFare is one calendar day of a fare series. Price is only meaningful
// when the day is Bookable.
type DayFare struct {
	Day           string  `json:"day"`
	DepartureDate *string `json:"departureDate"`
	ArrivalDate   *string `json:"arrivalDate"`
	Price         *Price  `json:"price"`
	SoldOut       bool    `json:"soldOut"`
	Unavailable   bool    `json:"unavailable"`
}

func (f DayFare) Bookable() bool {
	return !f.SoldOut && !f.Unavailable && f.Price != nil
}

type FareSeries struct {
	Fares   []DayFare `json:"fares"`
	MinFare *DayFare  `json:"minFare,omitempty"`
	MaxFare *DayFare  `json:"maxFare,omitempty"`
}

type CheapestPerDay struct {
	Outbound FareSeries  `json:"outbound"`
	Inbound  *FareSeries `json:"inbound,omitempty"`
}

type RoundTripOption struct {
	Departure  DayFare `json:"departure"`
	Return     DayFare `json:"return"`
	TotalPrice Price   `json:"totalPrice"`
}
