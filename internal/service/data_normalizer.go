package service

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/models"
)

// oddsPlaces is the precision stored for decimal prices
const oddsPlaces = 3

// DataNormalizer normalizes records from various providers to one naming scheme
type DataNormalizer struct {
	teamNameMap map[string]string // Maps provider team names to canonical names
	logger      logrus.FieldLogger
}

// NewDataNormalizer creates a new data normalizer. aliases extend the built-in
// team map; keys are matched case-insensitively.
func NewDataNormalizer(logger logrus.FieldLogger, aliases map[string]string) *DataNormalizer {
	names := buildTeamNameMap()
	for k, v := range aliases {
		names[strings.ToUpper(collapseSpaces(k))] = v
	}
	return &DataNormalizer{
		teamNameMap: names,
		logger:      logger,
	}
}

// NormalizeMatch returns a copy of m with canonical team names, a UTC kick-off
// and cleaned odds. droppedOdds counts prices discarded as unusable.
func (n *DataNormalizer) NormalizeMatch(m models.MatchRecord, provider models.Provider) (out models.MatchRecord, droppedOdds int) {
	out = m
	if out.Provider == "" {
		out.Provider = provider
	}
	out.HomeTeam = n.NormalizeTeamName(m.HomeTeam)
	out.AwayTeam = n.NormalizeTeamName(m.AwayTeam)
	out.UTCDate = m.UTCDate.UTC()
	out.ExternalID = strings.TrimSpace(m.ExternalID)

	out.HomeOdd, droppedOdds = n.cleanOdd(m.HomeOdd, droppedOdds)
	out.DrawOdd, droppedOdds = n.cleanOdd(m.DrawOdd, droppedOdds)
	out.AwayOdd, droppedOdds = n.cleanOdd(m.AwayOdd, droppedOdds)
	if droppedOdds > 0 {
		n.logger.WithFields(logrus.Fields{
			"external_id": out.ExternalID,
			"dropped":     droppedOdds,
		}).Debug("Dropped unusable odds")
	}
	return out, droppedOdds
}

func (n *DataNormalizer) cleanOdd(odd *float64, dropped int) (*float64, int) {
	if odd == nil {
		return nil, dropped
	}
	normalized := n.NormalizeOdd(*odd)
	if normalized == nil {
		return nil, dropped + 1
	}
	return normalized, dropped
}

// NormalizeOdd rounds a decimal price; non-positive or non-finite prices yield nil
func (n *DataNormalizer) NormalizeOdd(odd float64) *float64 {
	if math.IsNaN(odd) || math.IsInf(odd, 0) || odd <= 0 {
		return nil
	}
	d := decimal.NewFromFloat(odd).Round(oddsPlaces)
	if !d.IsPositive() {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// NormalizeTeamName maps provider-specific team names to canonical form
func (n *DataNormalizer) NormalizeTeamName(team string) string {
	cleaned := collapseSpaces(team)
	if cleaned == "" {
		return ""
	}

	if canonical, ok := n.teamNameMap[strings.ToUpper(cleaned)]; ok {
		return canonical
	}

	stripped := stripClubSuffix(cleaned)
	if canonical, ok := n.teamNameMap[strings.ToUpper(stripped)]; ok {
		return canonical
	}
	return stripped
}

// collapseSpaces trims and reduces internal whitespace runs to one space
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripClubSuffix removes a trailing "FC" or "AFC" token
func stripClubSuffix(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name
	}
	switch strings.ToUpper(fields[len(fields)-1]) {
	case "FC", "AFC":
		return strings.Join(fields[:len(fields)-1], " ")
	}
	return name
}

// buildTeamNameMap returns mapping of team name variations to canonical names
func buildTeamNameMap() map[string]string {
	return map[string]string{
		// football-data.org long forms and API-Football short forms
		"AFC BOURNEMOUTH":          "Bournemouth",
		"BOURNEMOUTH":              "Bournemouth",
		"BRIGHTON & HOVE ALBION":   "Brighton & Hove Albion",
		"BRIGHTON":                 "Brighton & Hove Albion",
		"IPSWICH TOWN":             "Ipswich Town",
		"IPSWICH":                  "Ipswich Town",
		"LEEDS UNITED":             "Leeds United",
		"LEEDS":                    "Leeds United",
		"LEICESTER CITY":           "Leicester City",
		"LEICESTER":                "Leicester City",
		"LUTON TOWN":               "Luton Town",
		"LUTON":                    "Luton Town",
		"MANCHESTER CITY":          "Manchester City",
		"MAN CITY":                 "Manchester City",
		"MANCHESTER UNITED":        "Manchester United",
		"MAN UNITED":               "Manchester United",
		"NEWCASTLE UNITED":         "Newcastle United",
		"NEWCASTLE":                "Newcastle United",
		"NOTTINGHAM FOREST":        "Nottingham Forest",
		"NOTTM FOREST":             "Nottingham Forest",
		"SHEFFIELD UNITED":         "Sheffield United",
		"SHEFFIELD UTD":            "Sheffield United",
		"TOTTENHAM HOTSPUR":        "Tottenham Hotspur",
		"TOTTENHAM":                "Tottenham Hotspur",
		"WEST HAM UNITED":          "West Ham United",
		"WEST HAM":                 "West Ham United",
		"WOLVERHAMPTON WANDERERS":  "Wolverhampton Wanderers",
		"WOLVES":                   "Wolverhampton Wanderers",
		"WEST BROMWICH ALBION":     "West Bromwich Albion",
		"WEST BROM":                "West Bromwich Albion",
		"NORWICH CITY":             "Norwich City",
		"NORWICH":                  "Norwich City",
		"CARDIFF CITY":             "Cardiff City",
		"CARDIFF":                  "Cardiff City",
		"HUDDERSFIELD TOWN":        "Huddersfield Town",
		"HUDDERSFIELD":             "Huddersfield Town",
		"SWANSEA CITY":             "Swansea City",
		"SWANSEA":                  "Swansea City",
		"STOKE CITY":               "Stoke City",
		"STOKE":                    "Stoke City",
		"HULL CITY":                "Hull City",
		"HULL":                     "Hull City",
		"BRIGHTON AND HOVE ALBION": "Brighton & Hove Albion",
	}
}
