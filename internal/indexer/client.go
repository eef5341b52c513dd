// Package indexer provides a REST client for the Cauldron DEX indexer. All
// reads go through the response cache: volatile data (pools, current price)
// through the short-lived quote store, historic prices through the durable
// store with no expiry.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mainnet-pat/cc-wallet/internal/cache"
	klog "github.com/mainnet-pat/cc-wallet/internal/log"
	"github.com/mainnet-pat/cc-wallet/internal/quote"
	"github.com/mainnet-pat/cc-wallet/pkg/types"
)

// DefaultURL is the public Cauldron indexer.
const DefaultURL = "https://indexer.cauldron.quest"

// History query window: one day back from the requested instant in ten
// minute steps.
const (
	historyLookback = 86_400
	historyStep     = 600
)

// StatusError is returned when the indexer answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("indexer %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Stores selects the cache backing for each class of request.
type Stores struct {
	// Quote holds volatile responses for QuoteTTL.
	Quote cache.Store
	// Durable holds immutable responses forever.
	Durable cache.Store
}

// Client is a cached Cauldron indexer client.
type Client struct {
	base     string
	fetcher  *cache.Fetcher
	stores   Stores
	quoteTTL time.Duration
}

// New creates a client for the indexer at baseURL.
func New(baseURL string, stores Stores) *Client {
	return NewWithTimeout(baseURL, 10*time.Second, stores)
}

// NewWithTimeout creates a client with a custom HTTP timeout.
func NewWithTimeout(baseURL string, timeout time.Duration, stores Stores) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		fetcher:  cache.NewFetcher(&http.Client{Timeout: timeout}),
		stores:   stores,
		quoteTTL: cache.DefaultDuration,
	}
}

// WithQuoteTTL overrides how long volatile responses stay fresh.
func (c *Client) WithQuoteTTL(d time.Duration) *Client {
	c.quoteTTL = d
	return c
}

// WithClock replaces the time source used for cache freshness.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.fetcher.WithClock(now)
	return c
}

type activePool struct {
	TxID    types.Hash `json:"txid"`
	TxPos   uint32     `json:"tx_pos"`
	TokenID string     `json:"token_id"`
	Sats    uint64     `json:"sats"`
	Tokens  uint64     `json:"tokens"`
}

// ActivePools returns the current pool snapshot for a token.
func (c *Client) ActivePools(ctx context.Context, tokenID string) ([]quote.Pool, error) {
	id, err := types.HexToTokenID(tokenID)
	if err != nil {
		return nil, fmt.Errorf("token id: %w", err)
	}
	q := url.Values{"token": {id.String()}}

	var body struct {
		Active []activePool `json:"active"`
	}
	if err := c.get(ctx, "/cauldron/pool/active?"+q.Encode(), c.stores.Quote, c.quoteTTL, &body); err != nil {
		return nil, err
	}

	pools := make([]quote.Pool, 0, len(body.Active))
	for _, p := range body.Active {
		pools = append(pools, quote.Pool{
			ID:          types.Outpoint{TxID: p.TxID, Vout: p.TxPos}.String(),
			TokenID:     p.TokenID,
			Sats:        p.Sats,
			TokenAmount: p.Tokens,
		})
	}
	return pools, nil
}

// CurrentPrice returns the token's current price in satoshis per token unit.
func (c *Client) CurrentPrice(ctx context.Context, tokenID string) (float64, error) {
	id, err := types.HexToTokenID(tokenID)
	if err != nil {
		return 0, fmt.Errorf("token id: %w", err)
	}
	var body struct {
		Price float64 `json:"price"`
	}
	path := "/cauldron/price/" + id.String() + "/current"
	if err := c.get(ctx, path, c.stores.Quote, c.quoteTTL, &body); err != nil {
		return 0, err
	}
	return body.Price, nil
}

// HistoricPrice returns the last average price reported in the day before
// ts (Unix seconds), or 0 when the indexer has no history for that window.
func (c *Client) HistoricPrice(ctx context.Context, tokenID string, ts int64) (float64, error) {
	id, err := types.HexToTokenID(tokenID)
	if err != nil {
		return 0, fmt.Errorf("token id: %w", err)
	}
	path := "/cauldron/price/" + id.String() + "/history/" +
		"?start=" + strconv.FormatInt(ts-historyLookback, 10) +
		"&end=" + strconv.FormatInt(ts+1, 10) +
		"&stepsize=" + strconv.Itoa(historyStep)

	var body struct {
		History []struct {
			Avg       float64 `json:"avg"`
			Timestamp int64   `json:"timestamp"`
		} `json:"history"`
	}
	if err := c.get(ctx, path, c.stores.Durable, cache.Forever, &body); err != nil {
		return 0, err
	}
	if len(body.History) == 0 {
		return 0, nil
	}
	return body.History[len(body.History)-1].Avg, nil
}

// get fetches path through store and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, store cache.Store, ttl time.Duration, out interface{}) error {
	u := c.base + path
	resp, err := c.fetcher.Fetch(ctx, cache.Request{URL: u}, cache.Options{Store: store, Duration: ttl})
	if err != nil {
		return fmt.Errorf("indexer %s: %w", path, err)
	}
	if !resp.OK() {
		return &StatusError{URL: u, StatusCode: resp.StatusCode, Body: truncate(string(resp.Body), 200)}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	klog.Indexer.Debug().Str("path", path).Bool("cached", resp.Cached).Msg("Indexer response")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
