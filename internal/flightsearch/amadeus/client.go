// Package amadeus provides a client for the Amadeus Flight Offers
// Search API.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openjaw/openjaw/internal/flightsearch"
	"github.com/openjaw/openjaw/internal/itinerary"
	"github.com/openjaw/openjaw/internal/provider/resilience"
)

const (
	// ProviderName identifies this search provider.
	ProviderName = "amadeus"

	// DefaultBaseURL is the Amadeus self-service API base URL (test
	// environment; production uses api.amadeus.com).
	DefaultBaseURL = "https://test.api.amadeus.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 12 * time.Second

	// tokenExpiryMargin renews the OAuth token slightly before the
	// provider would reject it.
	tokenExpiryMargin = 30 * time.Second

	// segmentTimeLayout is the zone-less local timestamp format the API
	// uses for departures and arrivals.
	segmentTimeLayout = "2006-01-02T15:04:05"
)

// HTTPDoer executes HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Amadeus client.
type ClientConfig struct {
	// ClientID and ClientSecret are the API credentials (required).
	ClientID     string
	ClientSecret string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, a
	// resilient client with defaults is created.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 12s).
	Timeout time.Duration

	// Registry tracks provider health (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Amadeus Flight Offers Search client. It implements
// itinerary.Searcher.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   HTTPDoer
	logger       zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Amadeus client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		httpClient:   httpClient,
		logger:       cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search executes one flight-offers search and maps the response to
// domain offers. Malformed itineraries in the response are skipped
// individually; they never abort the batch.
func (c *Client) Search(ctx context.Context, req itinerary.SearchRequest) ([]itinerary.Offer, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("originLocationCode", req.Origin)
	q.Set("destinationLocationCode", req.Destination)
	q.Set("departureDate", req.Date.String())
	q.Set("adults", strconv.Itoa(req.Adults))
	if req.Children > 0 {
		q.Set("children", strconv.Itoa(req.Children))
	}
	if req.MaxResults > 0 {
		q.Set("max", strconv.Itoa(req.MaxResults))
	}
	if req.Currency != "" {
		q.Set("currencyCode", req.Currency)
	}

	endpoint := fmt.Sprintf("%s/v2/shopping/flight-offers?%s", c.baseURL, q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Str("date", req.Date.String()).
		Int("adults", req.Adults).
		Int("children", req.Children).
		Msg("searching flight offers")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &flightsearch.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach flight search provider",
			Err:      flightsearch.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var parsed offersResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	offers := c.toOffers(&parsed, req)

	c.logger.Debug().
		Int("offers", len(offers)).
		Int("raw_results", len(parsed.Data)).
		Msg("received flight offers")

	return offers, nil
}

// token returns a valid OAuth2 access token, fetching a new one via the
// client-credentials grant when the cached token is missing or expiring.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	endpoint := c.baseURL + "/v1/security/oauth2/token"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &flightsearch.Error{
			Provider: ProviderName,
			Code:     "TOKEN_REQUEST_FAILED",
			Message:  "failed to reach token endpoint",
			Err:      flightsearch.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &flightsearch.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("TOKEN_HTTP_%d", resp.StatusCode),
			Message:  "token request rejected",
			Err:      flightsearch.ErrUnauthorized,
		}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", &flightsearch.Error{
			Provider: ProviderName,
			Code:     "TOKEN_EMPTY",
			Message:  "token endpoint returned no access token",
			Err:      flightsearch.ErrUnauthorized,
		}
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpiryMargin)

	c.logger.Debug().
		Int("expires_in", token.ExpiresIn).
		Msg("refreshed provider access token")

	return c.accessToken, nil
}

// handleErrorResponse maps provider error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr errorResponse
	detail := ""
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Errors) > 0 {
		detail = apiErr.Errors[0].Detail
		if detail == "" {
			detail = apiErr.Errors[0].Title
		}
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &flightsearch.Error{
			Provider: ProviderName,
			Code:     "UNAUTHORIZED",
			Message:  "provider rejected credentials",
			Err:      flightsearch.ErrUnauthorized,
		}
	case statusCode == http.StatusTooManyRequests:
		return &flightsearch.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "provider rate limit exceeded",
			Err:      flightsearch.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusBadRequest:
		msg := "provider rejected search request"
		if detail != "" {
			msg = detail
		}
		return &flightsearch.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  msg,
			Err:      flightsearch.ErrInvalidRequest,
		}
	case statusCode >= 500:
		return &flightsearch.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "flight search provider is temporarily unavailable",
			Err:      flightsearch.ErrProviderUnavailable,
		}
	default:
		return &flightsearch.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("provider returned status %d", statusCode),
			Err:      flightsearch.ErrProviderUnavailable,
		}
	}
}

// toOffers converts the provider response into domain offers, dropping
// records that fail validation.
func (c *Client) toOffers(resp *offersResponse, req itinerary.SearchRequest) []itinerary.Offer {
	offers := make([]itinerary.Offer, 0, len(resp.Data))

	for i := range resp.Data {
		offer, err := c.toOffer(&resp.Data[i], req)
		if err != nil {
			c.logger.Warn().Err(err).
				Int("result_index", i).
				Msg("skipping malformed offer from provider")
			continue
		}
		offers = append(offers, offer)
	}

	return offers
}

func (c *Client) toOffer(data *offerData, req itinerary.SearchRequest) (itinerary.Offer, error) {
	priceFloat, err := strconv.ParseFloat(data.Price.Total, 64)
	if err != nil {
		return itinerary.Offer{}, fmt.Errorf("parsing price %q: %w", data.Price.Total, err)
	}

	var segments []itinerary.Segment
	for _, it := range data.Itineraries {
		for _, s := range it.Segments {
			depart, err := time.Parse(segmentTimeLayout, s.Departure.At)
			if err != nil {
				return itinerary.Offer{}, fmt.Errorf("parsing departure time %q: %w", s.Departure.At, err)
			}
			arrive, err := time.Parse(segmentTimeLayout, s.Arrival.At)
			if err != nil {
				return itinerary.Offer{}, fmt.Errorf("parsing arrival time %q: %w", s.Arrival.At, err)
			}
			if s.Departure.IATACode == "" || s.Arrival.IATACode == "" {
				return itinerary.Offer{}, fmt.Errorf("segment missing airport codes")
			}

			segment, err := itinerary.NewSegment(
				s.Departure.IATACode,
				s.Arrival.IATACode,
				depart,
				arrive,
				s.CarrierCode,
				s.CarrierCode+s.Number,
			)
			if err != nil {
				return itinerary.Offer{}, err
			}
			segments = append(segments, segment)
		}
	}

	return itinerary.NewOffer(req.Origin, req.Destination, req.Date, int(priceFloat), segments)
}
