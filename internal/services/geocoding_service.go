package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/civicux/civicux-api/internal/config"
)

type nominatimAddress struct {
	Road          string `json:"road"`
	HouseNumber   string `json:"house_number"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
}

type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// GeocodingService turns coordinates into a street address via Nominatim.
type GeocodingService struct {
	cfg    *config.Config
	client *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

func NewGeocodingService(cfg *config.Config) *GeocodingService {
	return &GeocodingService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  make(map[string]string),
	}
}

func coordKey(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lng, 'f', 4, 64)
}

// Reverse resolves lat/lng. Results are cached per coordinate pair rounded to
// four decimals.
func (s *GeocodingService) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return "", invalid("Coordenadas inválidas")
	}

	key := coordKey(lat, lng)
	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.cfg.NominatimURL, "/")+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "CivicUX/1.0")
	req.Header.Set("Accept-Language", "pt-BR")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: nominatim status %d", ErrUpstream, resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode nominatim response: %v", ErrUpstream, err)
	}

	address := formatAddress(body)
	s.mu.Lock()
	s.cache[key] = address
	s.mu.Unlock()
	return address, nil
}

func formatAddress(r nominatimResponse) string {
	a := r.Address
	parts := []string{}
	appendFirst := func(values ...string) {
		for _, v := range values {
			if v != "" {
				parts = append(parts, v)
				return
			}
		}
	}
	appendFirst(a.Road)
	appendFirst(a.HouseNumber)
	appendFirst(a.Suburb, a.Neighbourhood)
	appendFirst(a.City, a.Town, a.Village)
	appendFirst(a.State)

	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return "Endereço não encontrado"
}

// FallbackAddress is the plain coordinate string shown when lookup fails.
func FallbackAddress(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + ", " + strconv.FormatFloat(lng, 'f', 4, 64)
}
