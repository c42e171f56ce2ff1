package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Stage names in pipeline order.
const (
	StageHomeToAsia      = "home-asia"
	StageAsiaToAustralia = "asia-australia"
	StageAustraliaToHome = "australia-home"
)

// ScanStatus is the terminal state of a scan.
type ScanStatus string

const (
	// ScanComplete means all three stages produced a shortlist.
	ScanComplete ScanStatus = "complete"
	// ScanIncomplete means a stage found zero offers and the pipeline
	// stopped. Not an error: the caller can loosen parameters and rerun.
	ScanIncomplete ScanStatus = "incomplete"
)

// SearchRequest describes one provider invocation.
type SearchRequest struct {
	Origin      string
	Destination string
	Date        Date
	Adults      int
	Children    int
	MaxResults  int
	Currency    string
}

// Searcher is the external flight-offer search boundary consumed by the
// scanner. Implementations are expected to honor context cancellation.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]Offer, error)
	Name() string
}

// ScanParams carries the full parameter set for one scan. The scanner
// keeps no state between runs; everything it needs arrives here.
type ScanParams struct {
	// HomeAirport is the departure and final arrival airport.
	HomeAirport string

	// AsiaArrivals and AsiaDepartures support open-jaw routing within
	// Asia (arrive one airport, leave from another). Likewise for
	// Australia.
	AsiaArrivals        []string
	AsiaDepartures      []string
	AustraliaArrivals   []string
	AustraliaDepartures []string

	// StartDate anchors the first leg; FlexDays widens each stage's
	// date set by up to that many days on each side.
	StartDate Date
	FlexDays  int

	// AsiaStay and AustraliaStay chain each leg's window from the
	// previous leg's chosen date.
	AsiaStay      StayRange
	AustraliaStay StayRange

	Adults   int
	Children int
	Currency string

	// ShortlistLimit is the number of ranked candidates kept per stage.
	ShortlistLimit int

	// MaxCallsPerStage caps provider invocations per stage. Once
	// reached, no further calls are issued even if nothing was found.
	MaxCallsPerStage int
}

// Validate rejects parameter combinations before any provider call.
func (p ScanParams) Validate() error {
	if p.HomeAirport == "" {
		return fmt.Errorf("%w: home airport is required", ErrInvalidParams)
	}
	if len(p.AsiaArrivals) == 0 || len(p.AsiaDepartures) == 0 {
		return fmt.Errorf("%w: asia arrival and departure airports are required", ErrInvalidParams)
	}
	if len(p.AustraliaArrivals) == 0 || len(p.AustraliaDepartures) == 0 {
		return fmt.Errorf("%w: australia arrival and departure airports are required", ErrInvalidParams)
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidParams)
	}
	if p.FlexDays < 0 {
		return fmt.Errorf("%w: flex days must not be negative", ErrInvalidParams)
	}
	for _, stay := range []struct {
		name string
		r    StayRange
	}{{"asia", p.AsiaStay}, {"australia", p.AustraliaStay}} {
		if stay.r.MinDays < 0 {
			return fmt.Errorf("%w: %s stay min must not be negative", ErrInvalidParams, stay.name)
		}
		if stay.r.MaxDays < stay.r.MinDays {
			return fmt.Errorf("%w: %s stay max is below min", ErrInvalidParams, stay.name)
		}
	}
	if p.Adults < 1 {
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidParams)
	}
	if p.Children < 0 {
		return fmt.Errorf("%w: children must not be negative", ErrInvalidParams)
	}
	if p.ShortlistLimit < 1 {
		return fmt.Errorf("%w: shortlist limit must be at least 1", ErrInvalidParams)
	}
	if p.MaxCallsPerStage < 1 {
		return fmt.Errorf("%w: max calls per stage must be at least 1", ErrInvalidParams)
	}
	return nil
}

// StageResult is the outcome of one scan stage.
type StageResult struct {
	Stage       string
	Shortlist   []RankedOffer
	ChosenDate  Date
	SearchCalls int
	OffersFound int
}

// ScanResult is the outcome of a full scan.
type ScanResult struct {
	Status ScanStatus
	// FailedStage names the stage that found zero offers when Status is
	// ScanIncomplete.
	FailedStage string
	Stages      []StageResult
}

// ScannerConfig holds configuration for the scanner.
type ScannerConfig struct {
	// Searcher executes external flight-offer searches.
	Searcher Searcher

	// Logger for scan progress and degraded provider calls.
	Logger zerolog.Logger

	// CallTimeout bounds each individual provider call (default: 12s).
	// A call that exceeds it is abandoned and counted as zero offers.
	CallTimeout time.Duration

	// MaxResultsPerCall is passed to the provider (default: 25).
	MaxResultsPerCall int
}

// Scanner drives the three-stage open-jaw scan: home to Asia, Asia to
// Australia, Australia back home. Stages only move forward; a stage
// with zero aggregated offers terminates the scan as incomplete.
type Scanner struct {
	searcher    Searcher
	logger      zerolog.Logger
	callTimeout time.Duration
	maxResults  int
}

// NewScanner creates a scanner.
func NewScanner(cfg ScannerConfig) *Scanner {
	callTimeout := cfg.CallTimeout
	if callTimeout == 0 {
		callTimeout = 12 * time.Second
	}
	maxResults := cfg.MaxResultsPerCall
	if maxResults == 0 {
		maxResults = 25
	}
	return &Scanner{
		searcher:    cfg.Searcher,
		logger:      cfg.Logger,
		callTimeout: callTimeout,
		maxResults:  maxResults,
	}
}

type stagePlan struct {
	name         string
	origins      []string
	destinations []string
	dates        []Date
	profile      CostProfile
}

// Run executes a full scan. The returned error covers parameter
// validation and context cancellation only; provider failures degrade
// to empty stages per the scan contract.
func (s *Scanner) Run(ctx context.Context, params ScanParams) (*ScanResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	result := &ScanResult{Status: ScanComplete}

	// Stage 1 probes the anchor date plus/minus the flex range.
	dates := make([]Date, 0, 2*params.FlexDays+1)
	for i := -params.FlexDays; i <= params.FlexDays; i++ {
		dates = append(dates, params.StartDate.AddDays(i))
	}

	plan := stagePlan{
		name:         StageHomeToAsia,
		origins:      []string{params.HomeAirport},
		destinations: params.AsiaArrivals,
		dates:        dates,
		profile:      Outbound,
	}

	for stageIdx := 0; stageIdx < 3; stageIdx++ {
		stage, err := s.runStage(ctx, plan, params)
		if err != nil {
			return nil, err
		}
		result.Stages = append(result.Stages, *stage)

		if len(stage.Shortlist) == 0 {
			result.Status = ScanIncomplete
			result.FailedStage = stage.Stage
			s.logger.Warn().
				Str("stage", stage.Stage).
				Int("search_calls", stage.SearchCalls).
				Msg("stage found no offers, stopping scan")
			return result, nil
		}

		switch stageIdx {
		case 0:
			window := NextWindow(stage.ChosenDate, params.AsiaStay)
			plan = stagePlan{
				name:         StageAsiaToAustralia,
				origins:      params.AsiaDepartures,
				destinations: params.AustraliaArrivals,
				dates:        ProbeDates(window, params.FlexDays),
				profile:      Outbound,
			}
		case 1:
			window := NextWindow(stage.ChosenDate, params.AustraliaStay)
			plan = stagePlan{
				name:         StageAustraliaToHome,
				origins:      params.AustraliaDepartures,
				destinations: []string{params.HomeAirport},
				dates:        ProbeDates(window, params.FlexDays),
				profile:      Homebound,
			}
		}
	}

	return result, nil
}

// runStage aggregates offers across the airport-pair and date
// cross-product, bounded by the per-stage call cap, then ranks them.
func (s *Scanner) runStage(ctx context.Context, plan stagePlan, params ScanParams) (*StageResult, error) {
	stage := &StageResult{Stage: plan.name}
	var pool []Offer

search:
	for _, origin := range plan.origins {
		for _, dest := range plan.destinations {
			for _, date := range plan.dates {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if stage.SearchCalls >= params.MaxCallsPerStage {
					s.logger.Warn().
						Str("stage", plan.name).
						Int("max_calls", params.MaxCallsPerStage).
						Msg("stage call budget exhausted")
					break search
				}

				stage.SearchCalls++
				offers := s.boundedSearch(ctx, SearchRequest{
					Origin:      origin,
					Destination: dest,
					Date:        date,
					Adults:      params.Adults,
					Children:    params.Children,
					MaxResults:  s.maxResults,
					Currency:    params.Currency,
				})
				pool = append(pool, offers...)
			}
		}
	}

	stage.OffersFound = len(pool)
	if len(pool) == 0 {
		return stage, nil
	}

	stage.Shortlist = Select(pool, plan.profile, params.ShortlistLimit)
	stage.ChosenDate = stage.Shortlist[0].Offer.SearchDate

	s.logger.Info().
		Str("stage", plan.name).
		Int("search_calls", stage.SearchCalls).
		Int("offers", stage.OffersFound).
		Int("shortlist", len(stage.Shortlist)).
		Str("chosen_date", stage.ChosenDate.String()).
		Msg("stage completed")

	return stage, nil
}

// boundedSearch wraps one provider call in a hard timeout. Timeouts,
// provider errors and open circuits all degrade to zero offers for this
// call; they never stall or abort the scan.
func (s *Scanner) boundedSearch(ctx context.Context, req SearchRequest) []Offer {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	offers, err := s.searcher.Search(callCtx, req)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Str("date", req.Date.String()).
			Str("provider", s.searcher.Name()).
			Msg("search call degraded to zero offers")
		return nil
	}
	return offers
}
