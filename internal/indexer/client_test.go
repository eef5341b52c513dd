package indexer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainnet-pat/cc-wallet/internal/cache"
	"github.com/mainnet-pat/cc-wallet/internal/storage"
)

const (
	token = "c1b511d524edbe14b419cbe092a6756f6255b288eee08b196af9c45c9baae61e"
	txid  = "1111111111111111111111111111111111111111111111111111111111111111"
)

type fakeIndexer struct {
	*httptest.Server
	calls   atomic.Int64
	lastURL atomic.Value
}

func newFakeIndexer(t *testing.T, routes map[string]string) *fakeIndexer {
	t.Helper()
	f := &fakeIndexer{}
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			f.calls.Add(1)
			f.lastURL.Store(r.URL.String())
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func memStores() Stores {
	inner := storage.NewMemory()
	return Stores{
		Quote:   cache.NewDBStore(storage.NewPrefixDB(inner, []byte("quote/"))),
		Durable: cache.NewDBStore(storage.NewPrefixDB(inner, []byte("historic/"))),
	}
}

func TestClient_ActivePools(t *testing.T) {
	srv := newFakeIndexer(t, map[string]string{
		"/cauldron/pool/active": `{"active":[{"txid":"` + txid + `","tx_pos":2,"token_id":"` + token + `","sats":1000,"tokens":5000,"owner_pkh":"ab"}]}`,
	})
	c := New(srv.URL+"/", memStores())

	pools, err := c.ActivePools(context.Background(), token)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, txid+":2", pools[0].ID)
	assert.Equal(t, token, pools[0].TokenID)
	assert.Equal(t, uint64(1000), pools[0].Sats)
	assert.Equal(t, uint64(5000), pools[0].TokenAmount)
	assert.Equal(t, "/cauldron/pool/active?token="+token, srv.lastURL.Load())
}

func TestClient_CurrentPrice_CachedForQuoteTTL(t *testing.T) {
	srv := newFakeIndexer(t, map[string]string{
		"/cauldron/price/" + token + "/current": `{"price":12.5}`,
	})
	now := time.Unix(1_700_000_000, 0)
	c := New(srv.URL, memStores()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	p, err := c.CurrentPrice(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 12.5, p)

	_, err = c.CurrentPrice(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), srv.calls.Load())

	now = now.Add(cache.DefaultDuration)
	_, err = c.CurrentPrice(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(2), srv.calls.Load())
}

func TestClient_CurrentPrice_CustomTTL(t *testing.T) {
	srv := newFakeIndexer(t, map[string]string{
		"/cauldron/price/" + token + "/current": `{"price":1}`,
	})
	now := time.Unix(0, 0)
	c := New(srv.URL, memStores()).
		WithClock(func() time.Time { return now }).
		WithQuoteTTL(30 * time.Second)

	c.CurrentPrice(context.Background(), token)
	now = now.Add(31 * time.Second)
	c.CurrentPrice(context.Background(), token)
	assert.Equal(t, int64(2), srv.calls.Load())
}

func TestClient_HistoricPrice(t *testing.T) {
	srv := newFakeIndexer(t, map[string]string{
		"/cauldron/price/" + token + "/history/": `{"history":[{"avg":1.5,"timestamp":1},{"avg":2.25,"timestamp":2}]}`,
	})
	now := time.Unix(1_700_000_000, 0)
	c := New(srv.URL, memStores()).WithClock(func() time.Time { return now })

	p, err := c.HistoricPrice(context.Background(), token, 1_700_000_000)
	require.NoError(t, err)
	assert.Equal(t, 2.25, p)
	assert.Equal(t,
		"/cauldron/price/"+token+"/history/?start=1699913600&end=1700000001&stepsize=600",
		srv.lastURL.Load())

	now = now.Add(1000 * 24 * time.Hour)
	_, err = c.HistoricPrice(context.Background(), token, 1_700_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), srv.calls.Load(), "historic prices are cached forever")
}

func TestClient_HistoricPrice_EmptyHistory(t *testing.T) {
	srv := newFakeIndexer(t, map[string]string{
		"/cauldron/price/" + token + "/history/": `{"history":[]}`,
	})
	p, err := New(srv.URL, memStores()).HistoricPrice(context.Background(), token, 42)
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestClient_StatusError(t *testing.T) {
	srv := newFakeIndexer(t, nil)
	_, err := New(srv.URL, memStores()).CurrentPrice(context.Background(), token)

	var se *StatusError
	require.True(t, errors.As(err, &se), "error = %v", err)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestClient_DecodeError(t *testing.T) {
	srv := newFakeIndexer(t, map[string]string{
		"/cauldron/price/" + token + "/current": `not json`,
	})
	_, err := New(srv.URL, memStores()).CurrentPrice(context.Background(), token)
	assert.Error(t, err)
}

func TestClient_TransportError(t *testing.T) {
	srv := newFakeIndexer(t, nil)
	base := srv.URL
	srv.Close()

	_, err := NewWithTimeout(base, time.Second, memStores()).ActivePools(context.Background(), token)
	assert.Error(t, err)
}

func TestClient_RejectsBadTokenID(t *testing.T) {
	c := New("http://unused", memStores())
	ctx := context.Background()

	_, err := c.ActivePools(ctx, "../../etc")
	assert.Error(t, err)
	_, err = c.CurrentPrice(ctx, "zz")
	assert.Error(t, err)
	_, err = c.HistoricPrice(ctx, "", 0)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
