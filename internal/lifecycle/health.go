package lifecycle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Endpoint is one service health-check target.
type Endpoint struct {
	Name string
	URL  string
}

// ProbeResult is the outcome of probing one endpoint.
type ProbeResult struct {
	Endpoint Endpoint
	Healthy  bool
	Status   int
	Err      error
}

// Prober issues HTTP health probes against discovered endpoints.
type Prober struct {
	client *http.Client
}

// NewProber returns a prober with the standard 30 second probe timeout.
func NewProber() *Prober {
	return &Prober{client: &http.Client{Timeout: 30 * time.Second}}
}

// Probe checks every endpoint serially. Only HTTP 200 counts as healthy.
// Failures are collected, never returned as errors: the caller decides what
// a degraded environment means.
func (p *Prober) Probe(ctx context.Context, endpoints []Endpoint, logger *zerolog.Logger) []ProbeResult {
	var results []ProbeResult
	for _, endpoint := range endpoints {
		result := p.probeOne(ctx, endpoint)
		if result.Healthy {
			logger.Info().Str("service", endpoint.Name).Str("url", endpoint.URL).Msg("Health check passed")
		} else {
			logger.Warn().
				Err(result.Err).
				Str("service", endpoint.Name).
				Str("url", endpoint.URL).
				Int("status", result.Status).
				Msg("Health check failed")
		}
		results = append(results, result)
	}
	return results
}

func (p *Prober) probeOne(ctx context.Context, endpoint Endpoint) ProbeResult {
	result := ProbeResult{Endpoint: endpoint}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		result.Err = err
		return result
	}

	resp, err := p.client.Do(req)
	if err != nil {
		result.Err = err
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	if resp.StatusCode == http.StatusOK {
		result.Healthy = true
	} else {
		result.Err = fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return result
}
