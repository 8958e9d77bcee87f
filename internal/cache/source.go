// Package cache keeps short-lived copies of analytics documents so bursts of
// report jobs do not refetch the same snapshot.
package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"budgetdash/internal/core"
	"budgetdash/internal/datasource"
)

const (
	keyInsights  = "insights"
	keyAnalytics = "analytics"
)

// Source wraps an AnalyticsSource with a TTL cache. Concurrent misses for the
// same document share one upstream call, which keeps the first caller's
// context values but not its cancellation.
type Source struct {
	next      datasource.AnalyticsSource
	group     singleflight.Group
	insights  *Value[core.AnalyticsPayload]
	analytics *Value[core.AdvancedAnalyticsPayload]
}

// NewSource caches next for ttl. A non-positive ttl passes every call through.
func NewSource(next datasource.AnalyticsSource, ttl time.Duration) *Source {
	return &Source{
		next:      next,
		insights:  NewValue[core.AnalyticsPayload](ttl),
		analytics: NewValue[core.AdvancedAnalyticsPayload](ttl),
	}
}

func (s *Source) Insights(ctx context.Context) (core.AnalyticsPayload, error) {
	if p, ok := s.insights.Get(); ok {
		return p, nil
	}
	v, err, _ := s.group.Do(keyInsights, func() (any, error) {
		p, err := s.next.Insights(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.insights.Set(p)
		return p, nil
	})
	if err != nil {
		return core.AnalyticsPayload{}, err
	}
	return v.(core.AnalyticsPayload), nil
}

func (s *Source) Analytics(ctx context.Context) (core.AdvancedAnalyticsPayload, error) {
	if p, ok := s.analytics.Get(); ok {
		return p, nil
	}
	v, err, _ := s.group.Do(keyAnalytics, func() (any, error) {
		p, err := s.next.Analytics(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.analytics.Set(p)
		return p, nil
	})
	if err != nil {
		return core.AdvancedAnalyticsPayload{}, err
	}
	return v.(core.AdvancedAnalyticsPayload), nil
}

// Invalidate forces the next call of each document to reach the source.
func (s *Source) Invalidate() {
	s.insights.Invalidate()
	s.analytics.Invalidate()
}
