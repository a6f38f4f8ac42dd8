// Package tabular reads and writes the pipeline's CSV tables and run manifest.
package tabular

// Input table columns
const (
	ColProvider   = "provider"
	ColUTCDate    = "utc_date"
	ColSeason     = "season"
	ColMatchday   = "matchday"
	ColHomeTeam   = "home_team"
	ColAwayTeam   = "away_team"
	ColHomeGoals  = "home_goals"
	ColAwayGoals  = "away_goals"
	ColExternalID = "external_id"
	ColHomeOdd    = "home_odd"
	ColDrawOdd    = "draw_odd"
	ColAwayOdd    = "away_odd"
)

// Canonical table columns appended by reconciliation
const (
	ColMatchKey            = "match_key"
	ColSecondaryProvider   = "secondary_provider"
	ColSecondaryExternalID = "secondary_external_id"
	ColLabel               = "label"
)

// InputColumns is the column order of a raw provider table
var InputColumns = []string{
	ColProvider, ColUTCDate, ColSeason, ColMatchday,
	ColHomeTeam, ColAwayTeam, ColHomeGoals, ColAwayGoals,
	ColExternalID, ColHomeOdd, ColDrawOdd, ColAwayOdd,
}

// RequiredInputColumns must be present in any table read back
var RequiredInputColumns = []string{
	ColProvider, ColUTCDate, ColSeason, ColMatchday,
	ColHomeTeam, ColAwayTeam, ColHomeGoals, ColAwayGoals, ColExternalID,
}

// CanonicalColumns is the column order of the merged table
var CanonicalColumns = append(append([]string(nil), InputColumns...),
	ColMatchKey, ColSecondaryProvider, ColSecondaryExternalID, ColLabel)

// FeatureTableColumns returns the feature table header for the given feature columns
func FeatureTableColumns(featureColumns []string) []string {
	return append(append([]string(nil), CanonicalColumns...), featureColumns...)
}
