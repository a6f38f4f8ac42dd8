package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/models"
)

const (
	footballDataSourceName     = "football-data.org"
	footballDataDefaultBaseURL = "https://api.football-data.org/v4"
)

// Match statuses whose full-time score is final
var footballDataFinalStatuses = map[string]bool{
	"FINISHED": true,
	"AWARDED":  true,
}

// FootballDataClient implements MatchSource for the football-data.org v4 API
type FootballDataClient struct {
	httpClient  *RateLimitedHTTPClient
	baseURL     string
	apiKey      string
	competition string
	enabled     bool
	logger      logrus.FieldLogger
}

type footballDataResponse struct {
	Matches []footballDataMatch `json:"matches"`
}

type footballDataMatch struct {
	ID       int64            `json:"id"`
	UTCDate  string           `json:"utcDate"`
	Status   string           `json:"status"`
	Matchday *int             `json:"matchday"`
	HomeTeam footballDataTeam `json:"homeTeam"`
	AwayTeam footballDataTeam `json:"awayTeam"`
	Score    struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type footballDataTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewFootballDataClient creates a new football-data.org client for one competition code (e.g. "PL")
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, competition string, enabled bool, logger logrus.FieldLogger) *FootballDataClient {
	if baseURL == "" {
		baseURL = footballDataDefaultBaseURL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FootballDataClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		competition: competition,
		enabled:     enabled,
		logger:      logger.WithField("source", footballDataSourceName),
	}
}

// FetchMatches retrieves every match of the competition in one season
func (c *FootballDataClient) FetchMatches(ctx context.Context, season int) ([]models.MatchRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}

	endpoint := fmt.Sprintf("%s/competitions/%s/matches?%s", c.baseURL, url.PathEscape(c.competition),
		url.Values{"season": {strconv.Itoa(season)}}.Encode())

	var payload footballDataResponse
	if err := c.httpClient.getJSON(ctx, footballDataSourceName, endpoint, map[string]string{"X-Auth-Token": c.apiKey}, &payload); err != nil {
		return nil, err
	}

	matches := make([]models.MatchRecord, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		record, err := c.convertMatch(m, season)
		if err != nil {
			return nil, err
		}
		matches = append(matches, record)
	}

	c.logger.WithFields(logrus.Fields{
		"competition": c.competition,
		"season":      season,
		"matches":     len(matches),
	}).Debug("Fetched football-data.org matches")

	return matches, nil
}

func (c *FootballDataClient) convertMatch(m footballDataMatch, season int) (models.MatchRecord, error) {
	kickoff, err := time.Parse(time.RFC3339, m.UTCDate)
	if err != nil {
		return models.MatchRecord{}, NewDataSourceError(footballDataSourceName, ErrCodeInvalidData,
			fmt.Sprintf("match %d has invalid utcDate %q", m.ID, m.UTCDate), err)
	}

	record := models.MatchRecord{
		Provider:   models.ProviderFootballData,
		UTCDate:    kickoff.UTC(),
		Season:     season,
		Matchday:   m.Matchday,
		HomeTeam:   m.HomeTeam.Name,
		AwayTeam:   m.AwayTeam.Name,
		ExternalID: strconv.FormatInt(m.ID, 10),
	}
	// In-play scores would leak a partial result into the label
	if footballDataFinalStatuses[m.Status] {
		record.HomeGoals = m.Score.FullTime.Home
		record.AwayGoals = m.Score.FullTime.Away
	}
	return record, nil
}

// Provider returns the provider tag
func (c *FootballDataClient) Provider() models.Provider {
	return models.ProviderFootballData
}

// Name returns the name of the data source
func (c *FootballDataClient) Name() string {
	return footballDataSourceName
}

// IsEnabled returns whether this data source is currently enabled
func (c *FootballDataClient) IsEnabled() bool {
	return c.enabled
}
