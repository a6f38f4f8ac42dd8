package datasource

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/models"
)

const (
	apiFootballSourceName     = "api-football"
	apiFootballDefaultBaseURL = "https://v3.football.api-sports.io"
	apiFootballMatchWinnerBet = "Match Winner"
)

// Fixture short statuses whose goals are final
var apiFootballFinalStatuses = map[string]bool{
	"FT":  true,
	"AET": true,
	"PEN": true,
	"AWD": true,
	"WO":  true,
}

// roundNumber extracts the trailing number of a round label such as "Regular Season - 7"
var roundNumber = regexp.MustCompile(`(\d+)\s*$`)

// APIFootballClient implements MatchSource for API-Football fixtures and 1X2 odds
type APIFootballClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	leagueID   int
	fetchOdds  bool
	enabled    bool
	logger     logrus.FieldLogger
}

type apiFootballFixturesResponse struct {
	Response []apiFootballFixture `json:"response"`
}

type apiFootballFixture struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Round string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home apiFootballTeam `json:"home"`
		Away apiFootballTeam `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type apiFootballTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type apiFootballOddsResponse struct {
	Response []struct {
		Bookmakers []struct {
			Name string `json:"name"`
			Bets []struct {
				Name   string `json:"name"`
				Values []struct {
					Value string `json:"value"`
					Odd   string `json:"odd"`
				} `json:"values"`
			} `json:"bets"`
		} `json:"bookmakers"`
	} `json:"response"`
}

// NewAPIFootballClient creates a new API-Football client for one league id (e.g. 39)
func NewAPIFootballClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, leagueID int, fetchOdds, enabled bool, logger logrus.FieldLogger) *APIFootballClient {
	if baseURL == "" {
		baseURL = apiFootballDefaultBaseURL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &APIFootballClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		leagueID:   leagueID,
		fetchOdds:  fetchOdds,
		enabled:    enabled,
		logger:     logger.WithField("source", apiFootballSourceName),
	}
}

func (c *APIFootballClient) headers() map[string]string {
	h := map[string]string{
		"x-apisports-key": c.apiKey,
		"x-rapidapi-key":  c.apiKey,
	}
	if u, err := url.Parse(c.baseURL); err == nil && strings.HasSuffix(u.Hostname(), "rapidapi.com") {
		h["x-rapidapi-host"] = u.Hostname()
	}
	return h
}

// FetchMatches retrieves the league's fixtures for one season and, when enabled,
// the first bookmaker's Match Winner prices for each fixture.
func (c *APIFootballClient) FetchMatches(ctx context.Context, season int) ([]models.MatchRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}

	endpoint := fmt.Sprintf("%s/fixtures?%s", c.baseURL, url.Values{
		"league": {strconv.Itoa(c.leagueID)},
		"season": {strconv.Itoa(season)},
	}.Encode())

	var payload apiFootballFixturesResponse
	if err := c.httpClient.getJSON(ctx, apiFootballSourceName, endpoint, c.headers(), &payload); err != nil {
		return nil, err
	}

	matches := make([]models.MatchRecord, 0, len(payload.Response))
	for _, fx := range payload.Response {
		record, err := convertFixture(fx, season)
		if err != nil {
			return nil, err
		}
		matches = append(matches, record)
	}

	if c.fetchOdds {
		priced := 0
		for i := range matches {
			home, draw, away, err := c.fetchMatchWinnerOdds(ctx, matches[i].ExternalID)
			if err != nil {
				return nil, err
			}
			matches[i].HomeOdd, matches[i].DrawOdd, matches[i].AwayOdd = home, draw, away
			if matches[i].HasOdds() {
				priced++
			}
		}
		c.logger.WithFields(logrus.Fields{"season": season, "priced": priced}).Debug("Fetched API-Football odds")
	}

	c.logger.WithFields(logrus.Fields{
		"league_id": c.leagueID,
		"season":    season,
		"fixtures":  len(matches),
	}).Debug("Fetched API-Football fixtures")

	return matches, nil
}

func convertFixture(fx apiFootballFixture, season int) (models.MatchRecord, error) {
	kickoff, err := time.Parse(time.RFC3339, fx.Fixture.Date)
	if err != nil {
		return models.MatchRecord{}, NewDataSourceError(apiFootballSourceName, ErrCodeInvalidData,
			fmt.Sprintf("fixture %d has invalid date %q", fx.Fixture.ID, fx.Fixture.Date), err)
	}

	record := models.MatchRecord{
		Provider:   models.ProviderAPIFootball,
		UTCDate:    kickoff.UTC(),
		Season:     season,
		Matchday:   parseRound(fx.League.Round),
		HomeTeam:   fx.Teams.Home.Name,
		AwayTeam:   fx.Teams.Away.Name,
		ExternalID: strconv.FormatInt(fx.Fixture.ID, 10),
	}
	if apiFootballFinalStatuses[fx.Fixture.Status.Short] {
		record.HomeGoals = fx.Goals.Home
		record.AwayGoals = fx.Goals.Away
	}
	return record, nil
}

// parseRound returns the matchday of a round label, or nil for labels such as "Final"
func parseRound(round string) *int {
	m := roundNumber.FindStringSubmatch(round)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// fetchMatchWinnerOdds returns the Home/Draw/Away prices of the first bookmaker quoting the market.
// A fixture without a quote yields nil prices, not an error.
func (c *APIFootballClient) fetchMatchWinnerOdds(ctx context.Context, fixtureID string) (home, draw, away *float64, err error) {
	endpoint := fmt.Sprintf("%s/odds?%s", c.baseURL, url.Values{"fixture": {fixtureID}}.Encode())

	var payload apiFootballOddsResponse
	if err := c.httpClient.getJSON(ctx, apiFootballSourceName, endpoint, c.headers(), &payload); err != nil {
		return nil, nil, nil, err
	}

	for _, resp := range payload.Response {
		for _, bookmaker := range resp.Bookmakers {
			for _, bet := range bookmaker.Bets {
				if bet.Name != apiFootballMatchWinnerBet {
					continue
				}
				for _, v := range bet.Values {
					price := parseOdd(v.Odd)
					switch v.Value {
					case "Home":
						home = price
					case "Draw":
						draw = price
					case "Away":
						away = price
					}
				}
				return home, draw, away, nil
			}
		}
	}
	return nil, nil, nil, nil
}

// parseOdd parses a decimal price string; malformed or non-positive prices are treated as absent
func parseOdd(s string) *float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// Provider returns the provider tag
func (c *APIFootballClient) Provider() models.Provider {
	return models.ProviderAPIFootball
}

// Name returns the name of the data source
func (c *APIFootballClient) Name() string {
	return apiFootballSourceName
}

// IsEnabled returns whether this data source is currently enabled
func (c *APIFootballClient) IsEnabled() bool {
	return c.enabled
}
