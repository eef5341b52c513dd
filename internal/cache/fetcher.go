// Package cache implements a content-addressed HTTP response cache.
//
// Every request is reduced to a fingerprint (a BLAKE3 hash of its canonical
// form) which keys an Entry in a pluggable Store. Identical requests share
// one entry regardless of call order. The package performs no in-flight
// coalescing: concurrent misses for the same fingerprint each hit the
// network, and the last writer wins.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	klog "github.com/mainnet-pat/cc-wallet/internal/log"
	"github.com/mainnet-pat/cc-wallet/internal/metrics"
	"github.com/mainnet-pat/cc-wallet/pkg/crypto"
)

// KeyPrefix is prepended to every fingerprint.
const KeyPrefix = "cachedFetch-"

const (
	// DefaultDuration is the freshness window used for volatile data such
	// as price quotes.
	DefaultDuration = 5 * time.Minute

	// Forever marks entries that never go stale. Any negative duration
	// behaves the same way.
	Forever time.Duration = -1
)

// Request describes an outgoing HTTP request. Method, Header and Body are
// the request options: when all of them are empty the request is a plain
// GET identified by its URL alone.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// hasOptions reports whether any request option is set.
func (r Request) hasOptions() bool {
	return (r.Method != "" && r.Method != http.MethodGet) || len(r.Header) > 0 || len(r.Body) > 0
}

// canonical returns the string form that is hashed into the fingerprint:
// the URL, followed by a JSON encoding of the options when present.
func (r Request) canonical() string {
	if !r.hasOptions() {
		return r.URL
	}
	opts := struct {
		Method  string              `json:"method,omitempty"`
		Headers map[string][]string `json:"headers,omitempty"`
		Body    string              `json:"body,omitempty"`
	}{
		Method: r.Method,
		Body:   string(r.Body),
	}
	if len(r.Header) > 0 {
		// encoding/json sorts map keys, so the result is stable.
		opts.Headers = make(map[string][]string, len(r.Header))
		keys := make([]string, 0, len(r.Header))
		for k := range r.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		// Value order is significant and kept as given.
		for _, k := range keys {
			ck := http.CanonicalHeaderKey(k)
			opts.Headers[ck] = append(opts.Headers[ck], r.Header[k]...)
		}
	}
	b, _ := json.Marshal(opts)
	return r.URL + string(b)
}

// Fingerprint returns the cache key for r.
func Fingerprint(r Request) string {
	return KeyPrefix + crypto.HashHex(r.canonical())
}

// Payload is the stored portion of a response.
type Payload struct {
	Body       string `json:"body"`
	StatusCode int    `json:"statusCode"`
	URL        string `json:"url"`
}

// Entry is the value persisted under a fingerprint. Timestamp is in Unix
// seconds.
type Entry struct {
	Timestamp int64   `json:"timestamp"`
	Payload   Payload `json:"payload"`
}

// fresh reports whether e may still be served at now.
func (e Entry) fresh(now time.Time, d time.Duration) bool {
	if d < 0 {
		return true
	}
	return now.Sub(time.Unix(e.Timestamp, 0)) < d
}

// Response is a live or reconstructed HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	// URL is the resolved URL, after any redirects.
	URL string
	// Cached is true when the response came from the store.
	Cached bool
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options selects the backing store and freshness window for one fetch.
type Options struct {
	Store    Store
	Duration time.Duration
}

// Fetcher performs cached HTTP fetches.
type Fetcher struct {
	client Doer
	now    func() time.Time
}

// NewFetcher creates a fetcher that issues live requests through client.
// A nil client means http.DefaultClient.
func NewFetcher(client Doer) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, now: time.Now}
}

// WithClock replaces the fetcher's time source.
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// Fetch returns the response for req, from opts.Store when a fresh entry
// exists and from the network otherwise. Network errors are returned as is;
// failures writing the store are logged and counted but do not fail the
// fetch. An entry that cannot be read or decoded is treated as a miss.
func (f *Fetcher) Fetch(ctx context.Context, req Request, opts Options) (*Response, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cache: nil store")
	}
	key := Fingerprint(req)
	now := f.now()
	m := metrics.Cache()

	// An entry without a status code is hollow and refetched.
	if entry, ok := f.lookup(ctx, opts.Store, key); ok && entry.Payload.StatusCode != 0 && entry.fresh(now, opts.Duration) {
		m.Hits.Inc()
		klog.Cache.Debug().Str("url", req.URL).Str("key", key).Msg("Cache hit")
		return &Response{
			StatusCode: entry.Payload.StatusCode,
			Body:       []byte(entry.Payload.Body),
			URL:        entry.Payload.URL,
			Cached:     true,
		}, nil
	}

	m.Misses.Inc()
	klog.Cache.Debug().Str("url", req.URL).Str("key", key).Msg("Cache miss")

	resp, err := f.do(ctx, req)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Timestamp: now.Unix(),
		Payload: Payload{
			Body:       string(resp.Body),
			StatusCode: resp.StatusCode,
			URL:        resp.URL,
		},
	}
	value, err := json.Marshal(entry)
	if err == nil {
		err = opts.Store.Set(ctx, key, string(value))
	}
	if err != nil {
		m.StoreErrors.Inc()
		klog.Cache.Warn().Err(err).Str("key", key).Msg("Failed to persist cache entry")
	}
	return resp, nil
}

func (f *Fetcher) lookup(ctx context.Context, s Store, key string) (Entry, bool) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		metrics.Cache().StoreErrors.Inc()
		klog.Cache.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		klog.Cache.Debug().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return Entry{}, false
	}
	return e, true
}

func (f *Fetcher) do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Header {
		for _, vv := range v {
			hreq.Header.Add(k, vv)
		}
	}

	hresp, err := f.client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	resolved := req.URL
	if hresp.Request != nil && hresp.Request.URL != nil {
		resolved = hresp.Request.URL.String()
	}
	return &Response{
		StatusCode: hresp.StatusCode,
		Body:       data,
		URL:        resolved,
	}, nil
}
