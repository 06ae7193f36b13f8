// Package currency provides USD to Ethiopian Birr conversion with a cached
// exchange rate and a configured fallback.
package currency

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"trip-monitor/internal/config"
	"trip-monitor/internal/errors"
	"trip-monitor/pkg/utils"
)

// RateNormalizer converts an amount between currencies. Implementations
// must fall back to a default rate rather than fail when the upstream
// provider is unavailable.
type RateNormalizer interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

const cacheDuration = 6 * time.Hour

// Converter implements RateNormalizer against an exchange-rate API.
type Converter struct {
	http     *resty.Client
	fallback float64
	logger   zerolog.Logger

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
}

// NewConverter creates a new Converter.
func NewConverter(cfg config.CurrencyConfig, logger zerolog.Logger) *Converter {
	return &Converter{
		http: resty.New().
			SetBaseURL(cfg.APIURL).
			SetTimeout(10 * time.Second),
		fallback: cfg.FallbackUSDToETB,
		logger:   logger,
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Convert converts an amount between USD and ETB in either direction.
// Same-currency conversion is the identity. Other pairs are rejected.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	switch {
	case from == "USD" && to == "ETB":
		return utils.Round2(amount * c.usdToETBRate(ctx)), nil
	case from == "ETB" && to == "USD":
		return utils.Round2(amount / c.usdToETBRate(ctx)), nil
	default:
		return 0, errors.NewConversionError(from, to, amount, errors.ErrUnsupportedCurrency)
	}
}

// usdToETBRate returns the current USD to ETB rate, serving from the cache
// when fresh and the configured fallback when the API is unreachable.
func (c *Converter) usdToETBRate(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < cacheDuration {
		return c.rate
	}

	rate, err := c.fetchRate(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Float64("fallback_rate", c.fallback).
			Msg("Exchange rate fetch failed, using fallback")
		return c.fallback
	}

	c.rate = rate
	c.fetchedAt = time.Now()
	c.logger.Debug().Float64("rate", rate).Msg("Updated USD to ETB rate")
	return rate
}

func (c *Converter) fetchRate(ctx context.Context) (float64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"base":    "USD",
			"symbols": "ETB",
		}).
		SetResult(&ratesResponse{}).
		Get("/latest")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, errors.ErrRateUnavailable
	}

	body, ok := resp.Result().(*ratesResponse)
	if !ok || body.Rates == nil {
		return 0, errors.ErrRateUnavailable
	}
	rate, ok := body.Rates["ETB"]
	if !ok || rate <= 0 {
		return 0, errors.ErrRateUnavailable
	}
	return rate, nil
}
