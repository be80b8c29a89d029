package quality

import (
	"log/slog"
	"strings"
	"time"

	"github.com/llehouerou/chants/internal/config"
)

// FromConfig builds the resolver described by the [quality] section:
// Passthrough when no parameter is configured, otherwise a ParamResolver
// driven by a latency Probe when probe_url is set, or pinned to TierHigh.
func FromConfig(cfg *config.Config, logger *slog.Logger) Resolver {
	if !cfg.HasQualityConfig() {
		return Passthrough{}
	}
	qc := cfg.GetQualityConfig()
	values := map[Tier]string{
		TierLow:    qc.Low,
		TierMedium: qc.Medium,
		TierHigh:   qc.High,
	}
	tier := Fixed(TierHigh)
	if strings.TrimSpace(qc.ProbeURL) != "" {
		probe := NewProbe(nil, qc.ProbeURL, time.Duration(qc.ProbeInterval)*time.Second, logger)
		tier = probe.Tier
	}
	return NewParamResolver(qc.Param, values, tier)
}
