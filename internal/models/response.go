package models

type SearchRequest struct {
	From              string         `json:"from"`
	To                string         `json:"to"`
	DepartureDate     string         `json:"departure_date"`
	ReturnDate        string         `json:"return_date,omitempty"`
	TripType          string         `json:"trip_type"`
	Currency          string         `json:"currency,omitempty"`
	AlternativesLimit int            `json:"alternatives_limit,omitempty"`
	Filters           *OptionFilters `json:"filters,omitempty"`
	SortBy            string         `json:"sort_by,omitempty"`
	SortOrder         string         `json:"sort_order,omitempty"`
}

// OptionFilters narrows the round-trip options of a search.
type OptionFilters struct {
	MaxTotal          *float64 `json:"max_total,omitempty"`
	MinNights         *int     `json:"min_nights,omitempty"`
	MaxNights         *int     `json:"max_nights,omitempty"`
	DepartureWeekdays []string `json:"departure_weekdays,omitempty"`
}

type FareView struct {
	DayFare
	Formatted     string `json:"formatted,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
}

type RoundTripView struct {
	Departure  FareView `json:"departure"`
	Return     FareView `json:"return"`
	TotalPrice Price    `json:"total_price"`
	Formatted  string   `json:"formatted"`
}

type SearchMetadata struct {
	Loading         bool   `json:"loading"`
	Stale           bool   `json:"stale"`
	CacheHit        bool   `json:"cache_hit"`
	RoundTripSource string `json:"round_trip_source,omitempty"`
	SkippedPairs    int    `json:"skipped_pairs,omitempty"`
	SearchTimeMs    int64  `json:"search_time_ms"`
}

type SearchResponse struct {
	SearchCriteria   SearchRequest   `json:"search_criteria"`
	Metadata         SearchMetadata  `json:"metadata"`
	SelectedFare     *FareView       `json:"selected_fare,omitempty"`
	DisplayFare      *FareView       `json:"display_fare,omitempty"`
	DateUnavailable  bool            `json:"date_unavailable"`
	Alternatives     []FareView      `json:"alternatives"`
	BestFare         *FareView       `json:"best_fare,omitempty"`
	RoundTripOptions []RoundTripView `json:"round_trip_options,omitempty"`
}

type CalendarDay struct {
	Date      string   `json:"date,omitempty"`
	Fare      *DayFare `json:"fare,omitempty"`
	Formatted string   `json:"formatted,omitempty"`
	Level     string   `json:"level,omitempty"`
	State     string   `json:"state,omitempty"`
	Today     bool     `json:"today,omitempty"`
}

type CalendarMonth struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type CalendarResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Currency  string          `json:"currency"`
	Loading   bool            `json:"loading"`
	MinFare   *FareView       `json:"min_fare,omitempty"`
	MaxFare   *FareView       `json:"max_fare,omitempty"`
	Months    []CalendarMonth `json:"months"`
}

type InvalidateRequest struct {
	Prefix []string `json:"prefix"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CalendarRequest asks for a daily-fare calendar. Without a range the
// calendar covers the month of SelectedDate and the month after it.
type CalendarRequest struct {
	From         string `query:"from" json:"from"`
	To           string `query:"to" json:"to"`
	StartDate    string `query:"start_date" json:"start_date,omitempty"`
	EndDate      string `query:"end_date" json:"end_date,omitempty"`
	SelectedDate string `query:"selected_date" json:"selected_date,omitempty"`
	Currency     string `query:"currency" json:"currency,omitempty"`
}

type RoundTripRequest struct {
	From         string   `query:"from" json:"from"`
	To           string   `query:"to" json:"to"`
	OutboundDate string   `query:"outbound_date" json:"outbound_date"`
	InboundDate  string   `query:"inbound_date" json:"inbound_date"`
	Currency     string   `query:"currency" json:"currency,omitempty"`
	MaxTotal     *float64 `query:"max_total" json:"max_total,omitempty"`
	SortBy       string   `query:"sort_by" json:"sort_by,omitempty"`
	SortOrder    string   `query:"sort_order" json:"sort_order,omitempty"`
}

type RoundTripResponse struct {
	Params   RoundTripParams `json:"params"`
	Metadata SearchMetadata  `json:"metadata"`
	Options  []RoundTripView `json:"options"`
}
