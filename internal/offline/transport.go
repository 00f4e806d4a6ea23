package offline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	applog "github.com/Wellerson-M/controle-financeiro/internal/log"
)

const memoryCacheSize = 128

// Transport is a cache-first http.RoundTripper for GET requests. Responses
// newer than the TTL are served from cache without a network round trip;
// anything else goes to the network, and a stale cached copy is the fallback
// when the network is unreachable. Non-GET requests pass straight through.
//
// Cache failures are logged and otherwise invisible: a broken cache degrades
// to plain network access, never to a failed request.
type Transport struct {
	inner http.RoundTripper
	store *Store
	mem   *memoryCache
	ttl   time.Duration
	log   *applog.Logger
}

func NewTransport(inner http.RoundTripper, store *Store, ttl time.Duration) *Transport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &Transport{
		inner: inner,
		store: store,
		mem:   newMemoryCache(memoryCacheSize, ttl),
		ttl:   ttl,
		log:   applog.Default().WithComponent(applog.ComponentOffline),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.inner.RoundTrip(req)
	}

	key := cacheKey(req)

	if entry, ok := t.mem.get(key); ok {
		return synthesize(req, entry), nil
	}
	if entry, ok, err := t.store.Get(key); err != nil {
		t.log.WarnContext(req.Context(), "offline cache read failed", applog.FieldError, err)
	} else if ok && time.Since(entry.StoredAt) < t.ttl {
		t.mem.set(key, entry)
		return synthesize(req, entry), nil
	}

	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		// Network down: a stale copy beats no data.
		if entry, ok, cacheErr := t.store.Get(key); cacheErr == nil && ok {
			t.log.WarnContext(req.Context(), "serving stale cached response",
				applog.FieldEndpoint, req.URL.Path,
				"age", time.Since(entry.StoredAt))
			return synthesize(req, entry), nil
		}
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}
		entry := Entry{
			Status:   resp.StatusCode,
			Header:   resp.Header.Clone(),
			Body:     body,
			StoredAt: time.Now(),
		}
		t.mem.set(key, entry)
		if err := t.store.Put(key, entry); err != nil {
			t.log.WarnContext(req.Context(), "offline cache write failed", applog.FieldError, err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

// cacheKey hashes method, URL and the bearer token so two users sharing a
// machine never see each other's cached data.
func cacheKey(req *http.Request) string {
	h := sha256.New()
	io.WriteString(h, req.Method)
	io.WriteString(h, "|")
	io.WriteString(h, req.URL.String())
	io.WriteString(h, "|")
	io.WriteString(h, req.Header.Get("Authorization"))
	return hex.EncodeToString(h.Sum(nil))
}

func synthesize(req *http.Request, e Entry) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("X-Offline-Cache", "hit")
	return &http.Response{
		StatusCode:    e.Status,
		Status:        http.StatusText(e.Status),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
