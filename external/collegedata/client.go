package collegedata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	"github.com/gridironlab/weekly-digest/internal/domain/game"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/platform/resilience"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.collegefootballdata.com"
	gamesPath        = "/games"
	sourceName       = "collegedata"
	maxResponseBytes = 6 << 20
)

var bearerHeaderRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
var errCollegeDataTransient = crerr.New("collegedata transient failure")

type ClientConfig struct {
	HTTPClient   *http.Client
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RateLimitRPS int
	Logger       *logging.Logger
	Breaker      resilience.BreakerSettings
}

// Client fetches one week of games from the upstream schedule API. It makes
// exactly one attempt per fetch: the pipeline's stub fallback is the retry
// policy, so the client never loops or backs off.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	limiter        *rate.Limiter
	flight         resilience.SingleFlight
	now            func() time.Time
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	rps := cfg.RateLimitRPS
	if rps < 1 {
		rps = 1
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.Breaker),
		circuitEnabled: cfg.Breaker.Enabled,
		limiter:        rate.NewLimiter(rate.Limit(rps), rps),
		now:            time.Now,
	}
}

func (c *Client) FetchWeekGames(ctx context.Context, query usecase.GamesQuery) ([]usecase.UpstreamGame, []archive.Payload, error) {
	if query.Season < 1 {
		return nil, nil, fmt.Errorf("season must be greater than zero")
	}
	if query.Week < 1 {
		return nil, nil, fmt.Errorf("week must be greater than zero")
	}
	if c.apiKey == "" {
		return nil, nil, crerr.New("collegedata api key is not configured")
	}

	seasonType := strings.TrimSpace(query.SeasonType)
	if seasonType == "" {
		seasonType = usecase.SeasonTypeRegular
	}

	params := map[string]string{
		"year":       strconv.Itoa(query.Season),
		"week":       strconv.Itoa(query.Week),
		"seasonType": seasonType,
	}
	if division := strings.TrimSpace(query.Division); division != "" {
		params["division"] = division
	}

	var items []gamePayload
	raw, err := c.doJSON(ctx, gamesPath, params, &items)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch games season=%d week=%d: %w", query.Season, query.Week, err)
	}

	// Upstream response order is preserved; the ranker's stable sort depends
	// on it for tie-breaking.
	games := make([]usecase.UpstreamGame, 0, len(items))
	for _, item := range items {
		games = append(games, item.toUpstreamGame())
	}

	payloads := []archive.Payload{c.buildPayload(gamesPath, params, query, raw)}
	return games, payloads, nil
}

func (c *Client) doJSON(ctx context.Context, path string, params map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "collegedata circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: game data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return nil, fmt.Errorf("%w: rate limiter wait: %v", errCollegeDataTransient, waitErr)
		}

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

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

// executeRequest performs the single upstream attempt.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := fmt.Errorf("%w: send request: %s", errCollegeDataTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		c.logger.WarnContext(ctx, "collegedata request failed", "url", fullURL, "error", reqErr)
		return nil, reqErr
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errCollegeDataTransient, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isTransientStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: provider status=%d body=%s", errCollegeDataTransient, resp.StatusCode, abbreviateBody(raw))
		}
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	return raw, nil
}

func (c *Client) buildPayload(path string, params map[string]string, query usecase.GamesQuery, raw []byte) archive.Payload {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}

	entityKey := path
	if encoded := values.Encode(); encoded != "" {
		entityKey += "?" + encoded
	}

	sum := sha256.Sum256(raw)
	fetchedAt := c.now().UTC()

	return archive.Payload{
		Source:          sourceName,
		EntityType:      "api_response",
		EntityKey:       entityKey,
		Season:          query.Season,
		Week:            query.Week,
		PayloadJSON:     string(raw),
		PayloadHash:     hex.EncodeToString(sum[:]),
		SourceFetchedAt: &fetchedAt,
	}
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errCollegeDataTransient)
}

func isTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if secret != "" {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return bearerHeaderRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

// gamePayload mirrors one element of the upstream games response.
type gamePayload struct {
	ID             int64    `json:"id"`
	Season         int      `json:"season"`
	Week           int      `json:"week"`
	SeasonType     string   `json:"season_type"`
	StartDate      string   `json:"start_date"`
	Completed      bool     `json:"completed"`
	NeutralSite    bool     `json:"neutral_site"`
	ConferenceGame bool     `json:"conference_game"`
	HomeID         int64    `json:"home_id"`
	HomeTeam       string   `json:"home_team"`
	HomePoints     *int     `json:"home_points"`
	AwayID         int64    `json:"away_id"`
	AwayTeam       string   `json:"away_team"`
	AwayPoints     *int     `json:"away_points"`
	Periods        *int     `json:"periods"`
	Notes          string   `json:"notes"`
	Tags           []string `json:"tags"`
}

func (p gamePayload) toUpstreamGame() usecase.UpstreamGame {
	out := usecase.UpstreamGame{
		ID:             strconv.FormatInt(p.ID, 10),
		HomeTeam:       strings.TrimSpace(p.HomeTeam),
		AwayTeam:       strings.TrimSpace(p.AwayTeam),
		HomeID:         p.HomeID,
		AwayID:         p.AwayID,
		HomePoints:     p.HomePoints,
		AwayPoints:     p.AwayPoints,
		Completed:      p.Completed,
		ConferenceGame: p.ConferenceGame,
		Periods:        p.Periods,
		KickoffAt:      parseStartDate(p.StartDate),
		Tags:           append([]string{}, p.Tags...),
	}
	if p.ID <= 0 {
		out.ID = ""
	}
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		out.Tags = append(out.Tags, notes)
	}
	if p.Periods == nil && p.Completed {
		regulation := game.RegulationPeriods
		out.Periods = &regulation
	}

	return out
}

func parseStartDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
