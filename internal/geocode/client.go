package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Place is one forward-geocoding hit.
type Place struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to a Nominatim-compatible geocoding API. Every call is
// fallible by contract; callers that only need a display label should fall
// back to FallbackLabel instead of failing the selection.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "hemolink/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search resolves a free-text address to candidate coordinates.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	const op = "geocode.Client.Search"

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "5")

	var hits []nominatimPlace
	if err := c.get(ctx, "/search", q, &hits); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out := make([]Place, 0, len(hits))
	for _, h := range hits {
		lat, err1 := strconv.ParseFloat(h.Lat, 64)
		lng, err2 := strconv.ParseFloat(h.Lon, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Place{Label: h.DisplayName, Lat: lat, Lng: lng})
	}

	return out, nil
}

// Reverse resolves a coordinate to a display address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	const op = "geocode.Client.Reverse"

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")

	var hit nominatimPlace
	if err := c.get(ctx, "/reverse", q, &hit); err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	if hit.DisplayName == "" {
		return "", fmt.Errorf("%s: empty display name", op)
	}

	return hit.DisplayName, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// FallbackLabel renders a coordinate as a display string for when the
// geocoding API is unavailable. Selection never fails on a geocoding error.
func FallbackLabel(lat, lng float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lng)
}
