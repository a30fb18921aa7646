// Package refdata fetches real-world daily price series used to seed
// company charts. Fetched series are cosmetic reference data; the
// simulation engine never reads them, so every failure falls back to a
// synthesized series and the fetcher never returns an error upstream.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Client talks to an Alpha Vantage style daily-series endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type dailyResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// DailyCloses returns the closing prices for ticker in chronological
// order, oldest first.
func (c *Client) DailyCloses(ctx context.Context, ticker string) ([]float64, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", ticker)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", ticker, resp.StatusCode)
	}

	var body dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ticker, err)
	}
	if body.Note != "" {
		return nil, fmt.Errorf("fetch %s: rate limited", ticker)
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("fetch %s: %s", ticker, body.ErrorMessage)
	}
	if len(body.Series) == 0 {
		return nil, fmt.Errorf("fetch %s: empty series", ticker)
	}

	dates := make([]string, 0, len(body.Series))
	for d := range body.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	closes := make([]float64, 0, len(dates))
	for _, d := range dates {
		v, err := strconv.ParseFloat(body.Series[d].Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close for %s on %s: %w", ticker, d, err)
		}
		closes = append(closes, v)
	}
	return closes, nil
}
