package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"MarketPulse/internal/model"
)

// YahooFeed reads the news block of the Yahoo Finance search endpoint.
type YahooFeed struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFeed builds a feed on the given client, typically shared with the price fetcher.
func NewYahooFeed(client *http.Client) *YahooFeed {
	return &YahooFeed{
		BaseURL: "https://query2.finance.yahoo.com",
		Client:  client,
	}
}

func (f *YahooFeed) Name() string { return "yahoo" }

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

func (f *YahooFeed) Headlines(ctx context.Context, symbol string, limit int) ([]model.Headline, error) {
	q := url.Values{}
	q.Set("q", symbol)
	q.Set("quotesCount", "0")
	q.Set("newsCount", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/v1/finance/search?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo search: status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]model.Headline, 0, len(sr.News))
	for _, n := range sr.News {
		h := model.Headline{Title: n.Title, Publisher: n.Publisher, Link: n.Link}
		if n.ProviderPublishTime > 0 {
			h.PublishedAt = time.Unix(n.ProviderPublishTime, 0)
		}
		out = append(out, h)
	}
	return truncate(out, limit), nil
}
