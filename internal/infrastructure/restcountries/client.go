package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/country-explorer/internal/config"
	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/pkg/errors"
)

type client struct {
	httpClient  *http.Client
	baseURL     string
	geometryURL string
	logger      *zap.Logger

	mu  sync.Mutex
	all []domain.Country
}

// NewClient creates a directory client for the public REST Countries API.
// The full collection is fetched at most once per process.
func NewClient(cfg *config.DirectoryConfig, logger *zap.Logger) repository.DirectoryRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		geometryURL: cfg.GeometryURL,
		logger:      logger,
	}
}

// LoadAll returns the full collection sorted by common name using
// locale-aware, case-insensitive ordering. Ties keep source order.
func (c *client) LoadAll(ctx context.Context) ([]domain.Country, error) {
	c.mu.Lock()
	if c.all != nil {
		cached := c.all
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	countries, err := c.fetchCountries(ctx, c.baseURL+"/all")
	if err != nil {
		return nil, err
	}

	SortByCommonName(countries)

	c.mu.Lock()
	c.all = countries
	c.mu.Unlock()

	c.logger.Debug("Country collection loaded", zap.Int("count", len(countries)))
	return countries, nil
}

// LoadByCodes resolves several countries in one comma-joined batch call.
func (c *client) LoadByCodes(ctx context.Context, codes []string) ([]domain.Country, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	url := fmt.Sprintf("%s/alpha?codes=%s", c.baseURL, strings.Join(codes, ","))
	return c.fetchCountries(ctx, url)
}

// LoadDetail resolves one country by code plus summaries of its neighbours.
func (c *client) LoadDetail(ctx context.Context, code string) (*domain.CountryDetail, error) {
	countries, err := c.fetchCountries(ctx, fmt.Sprintf("%s/alpha/%s", c.baseURL, code))
	if err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, errors.ErrCountryNotFound
	}

	detail := &domain.CountryDetail{Country: countries[0]}

	if len(detail.Borders) > 0 {
		borders, err := c.LoadByCodes(ctx, detail.Borders)
		if err != nil {
			return nil, err
		}
		detail.BorderDetails = borders
	}

	return detail, nil
}

// LoadGeometry fetches the static boundary polygon dataset.
func (c *client) LoadGeometry(ctx context.Context) (*domain.FeatureCollection, error) {
	body, err := c.get(ctx, c.geometryURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var fc domain.FeatureCollection
	if err := json.NewDecoder(body).Decode(&fc); err != nil {
		c.logger.Error("Failed to decode geometry dataset", zap.Error(err))
		return nil, errors.ErrNetworkFailure
	}

	c.logger.Debug("Geometry dataset loaded", zap.Int("features", len(fc.Features)))
	return &fc, nil
}

func (c *client) fetchCountries(ctx context.Context, url string) ([]domain.Country, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.ErrNetworkFailure
	}

	// The directory returns an array for collection endpoints but a single
	// object for some alpha lookups.
	var countries []domain.Country
	if err := json.Unmarshal(raw, &countries); err != nil {
		var single domain.Country
		if err := json.Unmarshal(raw, &single); err != nil {
			c.logger.Error("Failed to decode directory response",
				zap.String("url", url),
				zap.Error(err))
			return nil, errors.ErrNetworkFailure
		}
		countries = []domain.Country{single}
	}

	return countries, nil
}

func (c *client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, errors.ErrNetworkFailure
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request",
			zap.String("url", url),
			zap.Error(err))
		return nil, errors.ErrNetworkFailure
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, errors.ErrCountryNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.logger.Error("Directory returned error",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, errors.ErrNetworkFailure
	}

	return resp.Body, nil
}

// SortByCommonName orders countries by common name ascending, locale-aware
// and case-insensitive. The sort is stable so equal names keep source order.
func SortByCommonName(countries []domain.Country) {
	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(countries, func(i, j int) bool {
		return coll.CompareString(countries[i].Name.Common, countries[j].Name.Common) < 0
	})
}
