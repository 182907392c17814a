// Package rates fetches the currency-to-USD rate table and caches it
// locally so conversion keeps working offline.
package rates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/yalkhatib/tradetracker"
)

// DefaultFeedURL serves a USD-based rate table.
//
//	{ "base": "USD", "rates": { "EUR": 0.91, ... } }
const DefaultFeedURL = "https://open.er-api.com/v6/latest/USD"

// ratesPath extracts the rate object from the feed document.
const ratesPath = "$.rates"

// RateStore persists the fetched table. *localstore.Store satisfies it.
type RateStore interface {
	SaveRates(r tradetracker.Rates, fetchedAt time.Time) error
	Rates() (tradetracker.Rates, time.Time, error)
}

// Cache loads the rate table: freshly fetched when the feed is
// reachable, otherwise the last persisted table regardless of age,
// otherwise the hardcoded fallback.
type Cache struct {
	store   RateStore
	feedURL string
	client  *http.Client
	now     func() time.Time
}

// NewCache creates a cache over the given store. An empty feedURL uses
// DefaultFeedURL.
func NewCache(store RateStore, feedURL string) *Cache {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Cache{
		store:   store,
		feedURL: feedURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

// Load returns the best available rate table and where it came from:
// "feed", "cache" or "fallback".
func (c *Cache) Load() (tradetracker.Rates, string) {
	fetched, err := c.fetch()
	if err == nil {
		// a failed save only costs the offline cache
		_ = c.store.SaveRates(fetched, c.now())
		return fetched, "feed"
	}

	cached, _, storeErr := c.store.Rates()
	if storeErr == nil && len(cached) > 0 {
		return cached, "cache"
	}
	return tradetracker.FallbackRates(), "fallback"
}

// fetch downloads the feed and extracts the rate table.
func (c *Cache) fetch() (tradetracker.Rates, error) {
	var jobj any
	if err := jwget(c.client, c.feedURL, &jobj); err != nil {
		return nil, fmt.Errorf("fetching rate feed: %w", err)
	}
	jval, err := jsonpath.Get(ratesPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing rate feed: %q %w", ratesPath, err)
	}
	jrates, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parsing rate feed: %q is not an object", ratesPath)
	}

	rates := make(tradetracker.Rates, len(jrates))
	for code, v := range jrates {
		f, ok := v.(float64)
		if !ok || f <= 0 {
			continue
		}
		rates[strings.ToUpper(code)] = decimal.NewFromFloat(f)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rate feed carried no usable rates")
	}
	return rates, nil
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
