// Package search combines the fare and airport queries behind one fare
// search: the selected day, alternatives when it cannot be booked, the best
// fare and round-trip options.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dharmasatrya/farecalendar/internal/calendar"
	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/filter"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/queries"
)

const (
	SourceRemote   = "remote"
	SourceComputed = "computed"
)

type Config struct {
	Timeout           time.Duration
	AlternativesLimit int
}

func DefaultConfig() Config {
	return Config{
		Timeout:           15 * time.Second,
		AlternativesLimit: calendar.DefaultAlternatives,
	}
}

type Service struct {
	fares    *queries.Fares
	airports *queries.Airports
	config   Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewService builds a search service. airports may be nil, in which case
// departure and arrival times are rendered in UTC.
func NewService(fares *queries.Fares, airports *queries.Airports, config Config, log zerolog.Logger) *Service {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.AlternativesLimit <= 0 {
		config.AlternativesLimit = calendar.DefaultAlternatives
	}
	return &Service{
		fares:    fares,
		airports: airports,
		config:   config,
		log:      log,
		now:      time.Now,
	}
}

// Normalize upper-cases codes, applies the default currency and infers the
// trip type from the presence of a return date.
func Normalize(req models.SearchRequest) models.SearchRequest {
	req.From = strings.ToUpper(strings.TrimSpace(req.From))
	req.To = strings.ToUpper(strings.TrimSpace(req.To))
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = models.DefaultCurrency
	}
	if req.TripType == "" {
		req.TripType = models.TripOneWay
		if req.ReturnDate != "" {
			req.TripType = models.TripRoundTrip
		}
	}
	return req
}

func validate(req models.SearchRequest) error {
	switch req.TripType {
	case models.TripOneWay:
		return queries.ValidateFareSearch(fareParams(req))
	case models.TripRoundTrip:
		if req.ReturnDate == "" {
			return fareerr.Validation("return_date is required for a round trip")
		}
		return queries.ValidateRoundTrip(roundTripParams(req))
	default:
		return fareerr.Validation("trip_type must be %q or %q", models.TripOneWay, models.TripRoundTrip)
	}
}

type legResult struct {
	data    models.CheapestPerDay
	outcome outcome
	err     error
}

type optionsResult struct {
	options []models.RoundTripOption
	outcome outcome
	err     error
}

// Search runs the queries a fare search needs concurrently and assembles the
// response. A failed outbound leg fails the search; a failed round-trip
// listing falls back to options computed from the cheapest fare per day.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	startTime := s.now()

	req = Normalize(req)
	if err := validate(req); err != nil {
		return nil, err
	}
	limit := req.AlternativesLimit
	if limit <= 0 {
		limit = s.config.AlternativesLimit
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		outbound legResult
		inbound  legResult
		remote   optionsResult
		zones    = newZones()
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		outbound.data, outbound.outcome, outbound.err = resolve[models.CheapestPerDay](searchCtx, s.fares.CheapestPerDay(fareParams(req)))
	}()

	if req.TripType == models.TripRoundTrip {
		wg.Add(2)
		go func() {
			defer wg.Done()
			remote.options, remote.outcome, remote.err = resolve[[]models.RoundTripOption](searchCtx, s.fares.RoundTrip(roundTripParams(req)))
		}()
		go func() {
			defer wg.Done()
			inbound.data, inbound.outcome, inbound.err = resolve[models.CheapestPerDay](searchCtx, s.fares.CheapestPerDay(returnParams(req)))
		}()
	}

	s.resolveZones(searchCtx, &wg, zones, req.From, req.To)
	wg.Wait()

	if outbound.err != nil {
		s.log.Warn().Err(outbound.err).Str("from", req.From).Str("to", req.To).Msg("outbound fares failed")
		return nil, outbound.err
	}

	series := withBounds(outbound.data.Outbound)
	depTZ, arrTZ := zones.get(req.From), zones.get(req.To)

	resp := &models.SearchResponse{
		SearchCriteria: req,
		Alternatives:   []models.FareView{},
	}
	meta := outbound.outcome

	if selected, ok := calendar.Lookup(series.Fares, req.DepartureDate); ok {
		view := fareView(selected, depTZ, arrTZ)
		resp.SelectedFare = &view
	}
	resp.DateUnavailable = resp.SelectedFare == nil || !resp.SelectedFare.Bookable()

	if display := calendar.DisplayFare(series, req.DepartureDate, req.TripType == models.TripOneWay); display != nil {
		view := fareView(*display, depTZ, arrTZ)
		resp.DisplayFare = &view
	}
	if series.MinFare != nil {
		view := fareView(*series.MinFare, depTZ, arrTZ)
		resp.BestFare = &view
	}
	for _, f := range calendar.SelectAlternatives(series.Fares, req.DepartureDate, limit) {
		resp.Alternatives = append(resp.Alternatives, fareView(f, depTZ, arrTZ))
	}

	if req.TripType == models.TripRoundTrip {
		options, source, skipped, err := s.roundTripOptions(req, outbound, inbound, remote)
		if err != nil {
			return nil, err
		}
		options = filter.Apply(options, req.Filters, req.SortBy, req.SortOrder)
		resp.RoundTripOptions = roundTripViews(options, depTZ, arrTZ)
		resp.Metadata.RoundTripSource = source
		resp.Metadata.SkippedPairs = skipped
		if source == SourceRemote {
			meta = meta.merge(remote.outcome)
		} else {
			meta = meta.merge(inbound.outcome)
		}
	}

	resp.Metadata.Loading = meta.loading
	resp.Metadata.Stale = meta.stale
	resp.Metadata.CacheHit = meta.hit
	resp.Metadata.SearchTimeMs = s.now().Sub(startTime).Milliseconds()

	return resp, nil
}

func (s *Service) roundTripOptions(req models.SearchRequest, outbound, inbound legResult, remote optionsResult) ([]models.RoundTripOption, string, int, error) {
	if remote.err == nil && len(remote.options) > 0 {
		options := append([]models.RoundTripOption(nil), remote.options...)
		calendar.SortOptions(options)
		return options, SourceRemote, 0, nil
	}
	if remote.err != nil {
		if fareerr.KindOf(remote.err) == fareerr.KindValidation {
			return nil, "", 0, remote.err
		}
		s.log.Warn().Err(remote.err).Str("from", req.From).Str("to", req.To).Msg("round-trip listing failed, combining legs")
	}

	var returnLeg []models.DayFare
	switch {
	case inbound.err == nil:
		returnLeg = inbound.data.Outbound.Fares
	case outbound.data.Inbound != nil:
		returnLeg = outbound.data.Inbound.Fares
	default:
		s.log.Warn().Err(inbound.err).Str("from", req.To).Str("to", req.From).Msg("return fares failed")
		if remote.err != nil {
			return nil, "", 0, remote.err
		}
		return []models.RoundTripOption{}, SourceComputed, 0, nil
	}

	options, skipped := calendar.CombineRoundTripReport(outbound.data.Outbound.Fares, returnLeg)
	if skipped > 0 {
		s.log.Warn().Int("skipped", skipped).Str("from", req.From).Str("to", req.To).Msg("skipped round-trip pairs with mixed currencies")
	}
	return options, SourceComputed, skipped, nil
}

// RoundTrip lists the remote round-trip options for p, filtered and sorted.
func (s *Service) RoundTrip(ctx context.Context, req models.RoundTripRequest) (*models.RoundTripResponse, error) {
	startTime := s.now()

	p := models.RoundTripParams{
		From:         strings.ToUpper(strings.TrimSpace(req.From)),
		To:           strings.ToUpper(strings.TrimSpace(req.To)),
		OutboundDate: req.OutboundDate,
		InboundDate:  req.InboundDate,
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
	}.WithDefaults()

	searchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var wg sync.WaitGroup
	zones := newZones()
	s.resolveZones(searchCtx, &wg, zones, p.From, p.To)

	options, o, err := resolve[[]models.RoundTripOption](searchCtx, s.fares.RoundTrip(p))
	wg.Wait()
	if err != nil {
		return nil, err
	}

	options = append([]models.RoundTripOption(nil), options...)
	calendar.SortOptions(options)
	options = filter.Apply(options, &models.OptionFilters{MaxTotal: req.MaxTotal}, req.SortBy, req.SortOrder)

	return &models.RoundTripResponse{
		Params: p,
		Metadata: models.SearchMetadata{
			Loading:         o.loading,
			Stale:           o.stale,
			CacheHit:        o.hit,
			RoundTripSource: SourceRemote,
			SearchTimeMs:    s.now().Sub(startTime).Milliseconds(),
		},
		Options: roundTripViews(options, zones.get(p.From), zones.get(p.To)),
	}, nil
}

// resolveZones looks up the time zones of both airports in the background.
// Lookups that fail leave the zone empty.
func (s *Service) resolveZones(ctx context.Context, wg *sync.WaitGroup, zones *zones, codes ...string) {
	if s.airports == nil {
		return
	}
	for _, code := range codes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			details, err := queries.Await[models.AirportDetails](ctx, s.airports.Details(code))
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					s.log.Debug().Err(err).Str("airport", code).Msg("airport time zone unavailable")
				}
				return
			}
			zones.set(code, details.Timezone)
		}(code)
	}
}

func fareParams(req models.SearchRequest) models.FareSearchParams {
	return models.FareSearchParams{From: req.From, To: req.To, StartDate: req.DepartureDate, Currency: req.Currency}
}

// returnParams searches the return leg: the reversed route from the return day.
func returnParams(req models.SearchRequest) models.FareSearchParams {
	return models.FareSearchParams{From: req.To, To: req.From, StartDate: req.ReturnDate, Currency: req.Currency}
}

func roundTripParams(req models.SearchRequest) models.RoundTripParams {
	return models.RoundTripParams{
		From:         req.From,
		To:           req.To,
		OutboundDate: req.DepartureDate,
		InboundDate:  req.ReturnDate,
		Currency:     req.Currency,
	}
}
