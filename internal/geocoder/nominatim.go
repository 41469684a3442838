package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pinkcollar_backend/internal/cache"
)

// Point - координаты города
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder ищет координаты по городу (и штату, если есть)
type Geocoder interface {
	Lookup(ctx context.Context, city, state string) (*Point, error)
}

// JSONCache - часть cache.Redis, нужная геокодеру
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// Nominatim - клиент OpenStreetMap Nominatim (/search?format=json)
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     JSONCache
	cacheTTL  time.Duration
}

func NewNominatim(opts Options, c JSONCache) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pinkcollar-backend"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
		cache:     c,
		cacheTTL:  opts.CacheTTL,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup возвращает nil без ошибки, если город не найден
func (n *Nominatim) Lookup(ctx context.Context, city, state string) (*Point, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, nil
	}

	key := cache.GeocodeKey(city, state)
	if n.cache != nil {
		var cached Point
		if ok, _ := n.cache.GetJSON(ctx, key, &cached); ok {
			return &cached, nil
		}
	}

	query := city
	if s := strings.TrimSpace(state); s != "" {
		query = city + ", " + s
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	p, err := parsePoint(results[0])
	if err != nil {
		return nil, err
	}

	if n.cache != nil {
		_ = n.cache.SetJSON(ctx, key, p, n.cacheTTL)
	}
	return p, nil
}

func parsePoint(r searchResult) (*Point, error) {
	lat, err1 := strconv.ParseFloat(r.Lat, 64)
	lng, err2 := strconv.ParseFloat(r.Lon, 64)
	if err := errors.Join(err1, err2); err != nil {
		return nil, fmt.Errorf("invalid coordinates in geocoder response: %w", err)
	}
	return &Point{Lat: lat, Lng: lng}, nil
}

// Noop - геокодер выключен в конфиге
type Noop struct{}

func (Noop) Lookup(ctx context.Context, city, state string) (*Point, error) {
	return nil, nil
}
