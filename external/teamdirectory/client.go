package teamdirectory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/platform/resilience"
)

const (
	defaultLookupPath = "/v1/teams"
	maxResponseBytes  = 2 << 20
)

var errDirectoryTransient = crerr.New("teamdirectory transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	LookupPath      string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	Logger          *logging.Logger
	Breaker         resilience.BreakerSettings
}

// Client resolves team names against the directory service. Results are
// cached in process; a miss is answered from the directory's search endpoint
// with an exact match preferred over the best fuzzy candidate.
type Client struct {
	httpClient     *http.Client
	lookupURL      string
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	cache          *inMemoryMetaCache
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 3 * time.Second
	}

	lookupPath := strings.TrimSpace(cfg.LookupPath)
	if lookupPath == "" {
		lookupPath = defaultLookupPath
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 6 * time.Hour
	}

	return &Client{
		httpClient:     httpClient,
		lookupURL:      buildURL(cfg.BaseURL, lookupPath),
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.Breaker),
		circuitEnabled: cfg.Breaker.Enabled,
		cache:          newInMemoryMetaCache(cacheTTL, cfg.CacheMaxEntries),
	}
}

func (c *Client) GetByName(ctx context.Context, scope, name string) (teammeta.Meta, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return teammeta.Meta{}, false, nil
	}

	cacheKey := scope + ":" + strings.ToLower(name)
	if meta, ok := c.cache.Get(cacheKey); ok {
		return meta, true, nil
	}

	teams, err := c.searchTeams(ctx, scope, name)
	if err != nil {
		return teammeta.Meta{}, false, fmt.Errorf("directory lookup %q: %w", name, err)
	}

	meta, matched := matchTeam(name, teams)
	if !matched {
		return teammeta.Meta{}, false, nil
	}

	c.cache.Set(cacheKey, meta)
	return meta, true, nil
}

func (c *Client) searchTeams(ctx context.Context, scope, name string) ([]teamPayload, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "teamdirectory circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("directory is temporarily unavailable: %w", err)
		}
	}

	values := url.Values{}
	values.Set("scope", scope)
	values.Set("search", name)
	fullURL := c.lookupURL + "?" + values.Encode()

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.Failure()
			} else {
				c.breaker.Success()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var teams []teamPayload
	if err := sonic.Unmarshal(raw, &teams); err != nil {
		return nil, fmt.Errorf("decode directory payload: %w", err)
	}

	return teams, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := fmt.Errorf("%w: send request: %v", errDirectoryTransient, err)
		c.logger.WarnContext(ctx, "teamdirectory request failed", "url", fullURL, "error", reqErr)
		return nil, reqErr
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errDirectoryTransient, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: directory status=%d", errDirectoryTransient, resp.StatusCode)
		}
		return nil, fmt.Errorf("directory status=%d", resp.StatusCode)
	}

	return raw, nil
}

// matchTeam prefers an exact case-insensitive name match, then the closest
// fuzzy candidate. Fuzzy matching folds case and diacritics so "San Jose
// State" still finds "San José State".
func matchTeam(name string, teams []teamPayload) (teammeta.Meta, bool) {
	if len(teams) == 0 {
		return teammeta.Meta{}, false
	}

	candidates := make([]string, 0, len(teams))
	byName := make(map[string]teamPayload, len(teams))
	for _, team := range teams {
		school := strings.TrimSpace(team.School)
		if school == "" {
			continue
		}
		if strings.EqualFold(school, name) {
			return team.toMeta(), true
		}
		candidates = append(candidates, school)
		byName[school] = team
	}

	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		return teammeta.Meta{}, false
	}
	sort.Sort(ranks)

	return byName[ranks[0].Target].toMeta(), true
}

type teamPayload struct {
	ID           int64    `json:"id"`
	School       string   `json:"school"`
	Abbreviation string   `json:"abbreviation"`
	Logos        []string `json:"logos"`
}

func (p teamPayload) toMeta() teammeta.Meta {
	meta := teammeta.Meta{
		Abbr: strings.TrimSpace(p.Abbreviation),
		ID:   p.ID,
	}
	if len(p.Logos) > 0 {
		meta.Logo = strings.TrimSpace(p.Logos[0])
	}
	return meta
}
