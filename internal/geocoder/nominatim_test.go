package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data map[string][]byte
}

func (m *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func TestNominatim_LookupAndCache(t *testing.T) {
	// 1. Подготовка
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Lahore, Punjab", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "pinkcollar-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"31.5204","lon":"74.3587"}]`))
	}))
	defer srv.Close()

	c := &memoryCache{data: map[string][]byte{}}
	n := NewNominatim(Options{BaseURL: srv.URL + "/", UserAgent: "pinkcollar-test", CacheTTL: time.Hour}, c)

	// 2. Действие
	p, err := n.Lookup(context.Background(), " Lahore ", "Punjab")
	require.NoError(t, err)
	again, err := n.Lookup(context.Background(), "lahore", "PUNJAB")

	// 3. Проверка
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 31.5204, p.Lat, 1e-9)
	assert.InDelta(t, 74.3587, p.Lng, 1e-9)
	assert.Equal(t, p, again)
	assert.EqualValues(t, 1, hits.Load())
}

func stubServer(t *testing.T, status int, body string) *Nominatim {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewNominatim(Options{BaseURL: srv.URL}, nil)
}

func TestNominatim_NotFoundAndErrors(t *testing.T) {
	ctx := context.Background()

	p, err := stubServer(t, http.StatusOK, `[]`).Lookup(ctx, "Atlantis", "")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = stubServer(t, http.StatusOK, `[]`).Lookup(ctx, "  ", "")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = stubServer(t, http.StatusTooManyRequests, ``).Lookup(ctx, "Karachi", "")
	assert.EqualError(t, err, "geocoder returned status 429")

	_, err = stubServer(t, http.StatusOK, `[{"lat":"north","lon":"74.3"}]`).Lookup(ctx, "Karachi", "")
	assert.ErrorContains(t, err, "invalid coordinates")
}

func TestNoop(t *testing.T) {
	p, err := Noop{}.Lookup(context.Background(), "Lahore", "")

	assert.NoError(t, err)
	assert.Nil(t, p)
}
