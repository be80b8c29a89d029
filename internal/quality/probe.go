package quality

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Latency limits for tier classification of a probe round trip.
const (
	HighLatency   = 300 * time.Millisecond
	MediumLatency = time.Second
)

// Probe measures network latency with a HEAD request against a fixed URL,
// at most once per interval, and classifies the last measurement.
type Probe struct {
	client    *http.Client
	url       string
	logger    *slog.Logger
	now       func() time.Time
	sometimes rate.Sometimes

	mu   sync.Mutex
	tier Tier
}

// NewProbe creates a probe. Until the first measurement it reports
// TierHigh.
func NewProbe(client *http.Client, probeURL string, interval time.Duration, logger *slog.Logger) *Probe {
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{
		client:    client,
		url:       probeURL,
		logger:    logger,
		now:       time.Now,
		sometimes: rate.Sometimes{First: 1, Interval: interval},
		tier:      TierHigh,
	}
}

// Tier re-measures if the interval has elapsed, then returns the current
// classification. It satisfies TierFunc.
func (p *Probe) Tier(ctx context.Context) Tier {
	p.sometimes.Do(func() { p.measure(ctx) })
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tier
}

func (p *Probe) measure(ctx context.Context) {
	tier := TierLow
	start := p.now()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err == nil {
		var resp *http.Response
		resp, err = p.client.Do(req)
		if err == nil {
			resp.Body.Close()
			tier = Classify(p.now().Sub(start))
		}
	}
	if err != nil {
		p.logger.Debug("quality probe failed", "url", p.url, "err", err)
	}

	p.mu.Lock()
	changed := p.tier != tier
	p.tier = tier
	p.mu.Unlock()
	if changed {
		p.logger.Info("network tier changed", "tier", tier.String())
	}
}

// Classify maps a round-trip latency to a tier.
func Classify(latency time.Duration) Tier {
	switch {
	case latency < HighLatency:
		return TierHigh
	case latency < MediumLatency:
		return TierMedium
	default:
		return TierLow
	}
}
