package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"MarketPulse/internal/model"
)

// RSSFeed scrapes an RSS 2.0 channel. URLTemplate may contain {symbol}.
type RSSFeed struct {
	URLTemplate string
	Proxy       string
	Timeout     time.Duration
}

func (f *RSSFeed) Name() string { return "rss" }

func (f *RSSFeed) Headlines(ctx context.Context, symbol string, limit int) ([]model.Headline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := strings.ReplaceAll(f.URLTemplate, "{symbol}", url.QueryEscape(symbol))

	c := colly.NewCollector(colly.UserAgent("Mozilla/5.0 (compatible; MarketPulse/1.0)"))
	if f.Timeout > 0 {
		c.SetRequestTimeout(f.Timeout)
	}
	if f.Proxy != "" {
		if err := c.SetProxy(f.Proxy); err != nil {
			return nil, fmt.Errorf("set proxy: %w", err)
		}
	}

	var items []model.Headline
	c.OnXML("//channel/item", func(e *colly.XMLElement) {
		if limit >= 0 && len(items) >= limit {
			return
		}
		h := model.Headline{
			Title:     strings.TrimSpace(e.ChildText("title")),
			Link:      strings.TrimSpace(e.ChildText("link")),
			Publisher: strings.TrimSpace(e.ChildText("source")),
		}
		if ts, err := time.Parse(time.RFC1123Z, strings.TrimSpace(e.ChildText("pubDate"))); err == nil {
			h.PublishedAt = ts
		}
		items = append(items, h)
	})

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("fetch rss %s: %w", target, err)
	}
	return items, nil
}
