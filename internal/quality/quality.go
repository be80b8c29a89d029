// Package quality picks the audio URL variant to request for the current
// network conditions.
package quality

import (
	"context"
	"net/url"
	"strings"
)

// Tier is a network quality class.
type Tier int

const (
	TierHigh Tier = iota
	TierMedium
	TierLow
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// TierFunc reports the current network tier.
type TierFunc func(ctx context.Context) Tier

// Resolver maps a track URL to the URL that should actually be requested.
// Implementations never fail: on any doubt they return the input.
type Resolver interface {
	OptimalURL(ctx context.Context, rawURL string) string
}

// Passthrough returns URLs unchanged.
type Passthrough struct{}

func (Passthrough) OptimalURL(_ context.Context, rawURL string) string { return rawURL }

// ParamResolver selects a variant by setting a query parameter to the value
// configured for the current tier, e.g. ?bitrate=64 on a slow network.
type ParamResolver struct {
	Param  string
	Values map[Tier]string
	Tier   TierFunc
}

// NewParamResolver returns a resolver, or Passthrough when param is empty.
func NewParamResolver(param string, values map[Tier]string, tier TierFunc) Resolver {
	if param == "" || tier == nil {
		return Passthrough{}
	}
	return &ParamResolver{Param: param, Values: values, Tier: tier}
}

func (r *ParamResolver) OptimalURL(ctx context.Context, rawURL string) string {
	value := r.Values[r.Tier(ctx)]
	if value == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}
	q := u.Query()
	q.Set(r.Param, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// Fixed returns a TierFunc that always reports t.
func Fixed(t Tier) TierFunc {
	return func(context.Context) Tier { return t }
}

// SanitizeURL trims whitespace and strips wrapping backticks, double quotes
// and single quotes, in that order.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	for _, q := range []string{"`", `"`, "'"} {
		s = strings.TrimPrefix(s, q)
		s = strings.TrimSuffix(s, q)
	}
	return strings.TrimSpace(s)
}

// SourceURL returns the URL that is requested, and cached, for a track URL:
// sanitized, then resolved by r. It returns "" when nothing is left after
// sanitizing.
func SourceURL(ctx context.Context, r Resolver, raw string) string {
	u := SanitizeURL(raw)
	if u == "" {
		return ""
	}
	return r.OptimalURL(ctx, u)
}
