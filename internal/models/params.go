package models

type FareSearchParams struct {
	From      string `json:"from"`
	To        string `json:"to"`
	StartDate string `json:"startDate"`
	Currency  string `json:"currency"`
}

func (p FareSearchParams) WithDefaults() FareSearchParams {
	p.Currency = currencyOrDefault(p.Currency)
	return p
}

type DailyRangeParams struct {
	From      string `json:"from"`
	To        string `json:"to"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Currency  string `json:"currency"`
}

func (p DailyRangeParams) WithDefaults() DailyRangeParams {
	p.Currency = currencyOrDefault(p.Currency)
	return p
}

type RoundTripParams struct {
	From         string `json:"from"`
	To           string `json:"to"`
	OutboundDate string `json:"outboundDate"`
	InboundDate  string `json:"inboundDate"`
	Currency     string `json:"currency"`
}

func (p RoundTripParams) WithDefaults() RoundTripParams {
	p.Currency = currencyOrDefault(p.Currency)
	return p
}

func currencyOrDefault(c string) string {
	if c == "" {
		return DefaultCurrency
	}
	return c
}

const (
	TripOneWay    = "one-way"
	TripRoundTrip = "round-trip"
)
