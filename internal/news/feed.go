// Package news provides headline sources for the sentiment aggregator.
package news

import (
	"context"

	"MarketPulse/internal/model"
)

// Feed returns at most limit recent headlines about symbol.
type Feed interface {
	Headlines(ctx context.Context, symbol string, limit int) ([]model.Headline, error)
	Name() string
}

// StaticFeed serves a fixed list of headlines. Used by the mock provider and in tests.
type StaticFeed struct {
	Items []model.Headline
	Err   error
}

func (s *StaticFeed) Name() string { return "static" }

func (s *StaticFeed) Headlines(_ context.Context, _ string, limit int) ([]model.Headline, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return truncate(s.Items, limit), nil
}

// DefaultMockHeadlines is what the mock provider serves.
var DefaultMockHeadlines = []model.Headline{
	{Title: "Nifty hits record high as banks rally", Publisher: "mock"},
	{Title: "Foreign investors turn net buyers for a third session", Publisher: "mock"},
	{Title: "Rupee weakens against dollar on crude concerns", Publisher: "mock"},
	{Title: "RBI keeps repo rate unchanged", Publisher: "mock"},
	{Title: "IT stocks slump after weak guidance", Publisher: "mock"},
}

func truncate(items []model.Headline, limit int) []model.Headline {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
