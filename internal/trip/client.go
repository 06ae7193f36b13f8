// Package trip provides the Trip.com travel search integration.
package trip

import (
	"context"
	"crypto/md5"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"trip-monitor/internal/config"
	"trip-monitor/internal/errors"
	"trip-monitor/internal/models"
	"trip-monitor/internal/resilience"
	"trip-monitor/pkg/utils"
)

// QuoteSource defines the interface for travel price searches. An empty
// result list means "no offers right now", never an error.
type QuoteSource interface {
	SearchFlights(ctx context.Context, q FlightQuery) ([]models.Quote, error)
	SearchHotels(ctx context.Context, q HotelQuery) ([]models.Quote, error)
}

// FlightQuery holds flight search parameters.
type FlightQuery struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Passengers  int
}

// HotelQuery holds hotel search parameters.
type HotelQuery struct {
	City     string
	Checkin  string
	Checkout string
	Rooms    int
	Guests   int
}

// FlightQueryFromParams builds a flight query from an alert's stored
// search parameters.
func FlightQueryFromParams(params map[string]string) FlightQuery {
	return FlightQuery{
		Origin:      params["flight_origin"],
		Destination: params["flight_destination"],
		DepartDate:  params["flight_depart_date"],
		ReturnDate:  params["flight_return_date"],
		Passengers:  intParam(params, "passengers", 1),
	}
}

// HotelQueryFromParams builds a hotel query from an alert's stored
// search parameters.
func HotelQueryFromParams(params map[string]string) HotelQuery {
	return HotelQuery{
		City:     params["hotel_city"],
		Checkin:  params["hotel_checkin"],
		Checkout: params["hotel_checkout"],
		Rooms:    intParam(params, "hotel_rooms", 1),
		Guests:   intParam(params, "guests", 1),
	}
}

func intParam(params map[string]string, key string, fallback int) int {
	if v, err := strconv.Atoi(params[key]); err == nil && v > 0 {
		return v
	}
	return fallback
}

// Client is the HTTP client for the Trip.com API. A shared circuit
// breaker keeps a dead upstream from burning retries on every alert in
// a tick.
type Client struct {
	http      *resty.Client
	apiKey    string
	apiSecret string
	retryCfg  utils.RetryConfig
	breaker   *resilience.Breaker
}

// NewClient creates a new Trip.com API client.
func NewClient(cfg config.TripConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:      http,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		retryCfg:  utils.DefaultRetryConfig(),
		breaker:   resilience.NewBreaker("trip.com", resilience.DefaultBreakerConfig()),
	}
}

type searchResponse struct {
	Results []struct {
		PriceUSD *float64 `json:"price_usd"`
		Currency string   `json:"currency"`
		Provider string   `json:"provider"`
	} `json:"results"`
}

// SearchFlights searches for flight offers.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]models.Quote, error) {
	params := map[string]string{
		"from_city":   q.Origin,
		"to_city":     q.Destination,
		"depart_date": q.DepartDate,
		"passengers":  strconv.Itoa(q.Passengers),
	}
	if q.ReturnDate != "" {
		params["return_date"] = q.ReturnDate
	}
	return c.search(ctx, "/v1/flights/search", params)
}

// SearchHotels searches for hotel offers.
func (c *Client) SearchHotels(ctx context.Context, q HotelQuery) ([]models.Quote, error) {
	params := map[string]string{
		"city":         q.City,
		"checkin_date": q.Checkin,
		"rooms":        strconv.Itoa(q.Rooms),
		"guests":       strconv.Itoa(q.Guests),
	}
	if q.Checkout != "" {
		params["checkout_date"] = q.Checkout
	}
	return c.search(ctx, "/v1/hotels/search", params)
}

func (c *Client) search(ctx context.Context, endpoint string, params map[string]string) ([]models.Quote, error) {
	params["api_key"] = c.apiKey
	params["timestamp"] = strconv.FormatInt(time.Now().Unix(), 10)
	params["signature"] = c.sign(params)

	resp, err := resilience.Do(c.breaker, func() (*resty.Response, error) {
		return utils.RetryWithResult(ctx, c.retryCfg, func() (*resty.Response, error) {
			r, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(params).
				SetResult(&searchResponse{}).
				Get(endpoint)
			if err != nil {
				return nil, err
			}
			if r.IsError() {
				return nil, fmt.Errorf("%w: status %d", errors.ErrSearchFailed, r.StatusCode())
			}
			return r, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", endpoint, err)
	}

	body, ok := resp.Result().(*searchResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response shape", errors.ErrSearchFailed)
	}

	now := time.Now()
	var quotes []models.Quote
	for _, r := range body.Results {
		// Offers without a price can't participate in the minimum.
		if r.PriceUSD == nil {
			continue
		}
		currency := r.Currency
		if currency == "" {
			currency = "USD"
		}
		quotes = append(quotes, models.Quote{
			Price:      *r.PriceUSD,
			Currency:   currency,
			Provider:   r.Provider,
			ReceivedAt: now,
		})
	}

	return quotes, nil
}

// sign generates the request signature: an uppercase MD5 over the secret,
// the sorted parameter string, and the secret again.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := c.apiSecret + strings.Join(pairs, "&") + c.apiSecret

	return strings.ToUpper(fmt.Sprintf("%x", md5.Sum([]byte(payload))))
}
