package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"toxshield/internal/models"
	"toxshield/internal/validation"
)

// DefaultProbeInterval is used when no positive interval is configured.
const DefaultProbeInterval = 30 * time.Second

// EndpointProber performs background health checks on classifier endpoints.
type EndpointProber struct {
	endpoints []string
	interval  time.Duration
	client    *http.Client

	mu     sync.RWMutex
	status map[string]models.EndpointHealthResponse
}

// NewEndpointProber creates a prober for endpoints. timeout bounds each probe.
// A non-positive interval selects DefaultProbeInterval.
func NewEndpointProber(endpoints []string, interval, timeout time.Duration) *EndpointProber {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	p := &EndpointProber{
		endpoints: endpoints,
		interval:  interval,
		client:    &http.Client{Timeout: timeout},
		status:    make(map[string]models.EndpointHealthResponse, len(endpoints)),
	}
	for _, ep := range endpoints {
		p.status[ep] = models.EndpointHealthResponse{Endpoint: ep, Status: models.HealthUnknown}
	}
	return p
}

// Start begins the background probe loop.
func (p *EndpointProber) Start(ctx context.Context) {
	log.Printf("Endpoint prober started (interval: %v, endpoints: %d)", p.interval, len(p.endpoints))

	// Run immediately on start
	p.ProbeAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Endpoint prober stopped")
			return
		case <-ticker.C:
			p.ProbeAll(ctx)
		}
	}
}

// ProbeAll checks every endpoint once, in order.
func (p *EndpointProber) ProbeAll(ctx context.Context) {
	for _, ep := range p.endpoints {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status, errMsg := p.probe(ctx, ep)
		now := time.Now()
		p.mu.Lock()
		prev := p.status[ep].Status
		p.status[ep] = models.EndpointHealthResponse{Endpoint: ep, Status: status, CheckedAt: &now, Error: errMsg}
		p.mu.Unlock()

		if prev != status {
			log.Printf("Endpoint prober: %s is %s", ep, status)
		}
	}
}

type healthBody struct {
	Status      string `json:"status"`
	ModelLoaded *bool  `json:"model_loaded"`
}

// probe calls GET {endpoint}/health.
func (p *EndpointProber) probe(ctx context.Context, endpoint string) (string, string) {
	if valid, msg := validation.ValidateEndpoint(endpoint); !valid {
		return models.HealthUnhealthy, msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(endpoint, "/")+"/health", nil)
	if err != nil {
		return models.HealthUnhealthy, "invalid URL: " + err.Error()
	}
	req.Header.Set("User-Agent", "toxshield-prober/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.HealthUnhealthy, "connection failed: " + err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.HealthUnhealthy, fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	var body healthBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Reachable but not speaking JSON: count it as up.
		return models.HealthHealthy, ""
	}
	if body.ModelLoaded != nil && !*body.ModelLoaded {
		return models.HealthUnhealthy, "model not loaded"
	}
	return models.HealthHealthy, ""
}

// Status returns the last known state of every endpoint in configured order.
func (p *EndpointProber) Status() []models.EndpointHealthResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.EndpointHealthResponse, 0, len(p.endpoints))
	for _, ep := range p.endpoints {
		out = append(out, p.status[ep])
	}
	return out
}

// Ready reports whether analyses can plausibly succeed: some endpoint is
// healthy or has not been probed yet.
func (p *EndpointProber) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, ep := range p.endpoints {
		if s := p.status[ep].Status; s == models.HealthHealthy || s == models.HealthUnknown {
			return true
		}
	}
	return false
}
