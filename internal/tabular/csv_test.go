package tabular

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/models"
)

func sampleCanonical() []models.CanonicalMatch {
	return []models.CanonicalMatch{
		{
			MatchRecord: models.MatchRecord{
				Provider:   models.ProviderFootballData,
				UTCDate:    time.Date(2023, 8, 11, 19, 0, 0, 0, time.UTC),
				Season:     2023,
				Matchday:   models.IntPtr(1),
				HomeTeam:   "Burnley FC",
				AwayTeam:   "Manchester City FC",
				HomeGoals:  models.IntPtr(0),
				AwayGoals:  models.IntPtr(3),
				ExternalID: "435943",
				HomeOdd:    models.FloatPtr(8.5),
				DrawOdd:    models.FloatPtr(5.25),
				AwayOdd:    models.FloatPtr(1.33),
			},
			MatchKey:            "2023-08-11_burnleyfc_manchestercityfc",
			SecondaryProvider:   models.ProviderAPIFootball,
			SecondaryExternalID: "1035037",
			Label:               models.LabelAwayWin,
		},
		{
			MatchRecord: models.MatchRecord{
				Provider:   models.ProviderFootballData,
				UTCDate:    time.Date(2024, 5, 19, 15, 0, 0, 0, time.UTC),
				Season:     2023,
				HomeTeam:   "Arsenal FC",
				AwayTeam:   "Everton FC",
				ExternalID: "436320",
			},
			MatchKey: "2024-05-19_arsenalfc_evertonfc",
			Label:    models.LabelUnknown,
		},
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCanonical(&buf, sampleCanonical()))

	got, err := ReadCanonical(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleCanonical(), got)
}

func TestReadMatchesOptionalOddsAndDateOnly(t *testing.T) {
	in := "\ufeffprovider,utc_date,season,matchday,home_team,away_team,home_goals,away_goals,external_id\n" +
		"csv,2023-08-12,2023,,Arsenal,Forest,2.0,1.0,a1\n" +
		"csv,2023-08-13T13:00:00+01:00,2023,1,Brentford,Spurs,,,a2\n"

	got, err := ReadMatches(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, time.Date(2023, 8, 12, 0, 0, 0, 0, time.UTC), got[0].UTCDate)
	assert.Nil(t, got[0].Matchday)
	assert.Equal(t, 2, *got[0].HomeGoals)
	assert.Nil(t, got[0].HomeOdd)

	assert.Equal(t, time.Date(2023, 8, 13, 12, 0, 0, 0, time.UTC), got[1].UTCDate)
	assert.False(t, got[1].IsPlayed())
}

func TestReadMatchesErrors(t *testing.T) {
	_, err := ReadMatches(strings.NewReader("provider,utc_date\ncsv,2023-08-12\n"))
	assert.ErrorContains(t, err, "missing required column")

	header := strings.Join(RequiredInputColumns, ",") + "\n"
	_, err = ReadMatches(strings.NewReader(header + "csv,yesterday,2023,,A,B,,,x\n"))
	assert.ErrorContains(t, err, "row 2")

	_, err = ReadMatches(strings.NewReader(header + "csv,2023-08-12,2023,,A,B,1.5,0,x\n"))
	assert.ErrorContains(t, err, "home_goals")
}

func TestWriteFeaturesMissingValuesAreEmpty(t *testing.T) {
	matches := sampleCanonical()
	rows := []models.FeatureRow{
		{CanonicalMatch: matches[0], Features: map[string]*float64{"elo_home": models.FloatPtr(1500), "odds_margin": nil}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, rows, []string{"elo_home", "odds_margin"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ",label,elo_home,odds_margin"))
	assert.True(t, strings.HasSuffix(lines[1], ",2,1500,"))
}

func TestWriteFeaturesIsDeterministic(t *testing.T) {
	rows := []models.FeatureRow{{CanonicalMatch: sampleCanonical()[0], Features: map[string]*float64{"elo_diff": models.FloatPtr(1.0 / 3.0)}}}

	var a, b bytes.Buffer
	require.NoError(t, WriteFeatures(&a, rows, []string{"elo_diff"}))
	require.NoError(t, WriteFeatures(&b, rows, []string{"elo_diff"}))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestFileHelpersAndManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "matches_merged.csv")

	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		return WriteCanonical(w, sampleCanonical())
	}))
	got, err := ReadCanonicalFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	manifest := &Manifest{
		RunID:          "run-1",
		CreatedAt:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EloK:           20,
		FormWindow:     5,
		Seasons:        []int{2022, 2023},
		TrainSeasons:   []int{2022},
		EvalSeason:     2023,
		FeatureColumns: []string{"elo_home", "odds_margin"},
		LabelColumn:    "label",
		Rows:           map[string]int{"train": 380, "eval": 370},
		Files:          []string{"features.csv", "train.csv", "eval.csv"},
	}
	manifestPath := filepath.Join(dir, ManifestFile)
	require.NoError(t, WriteManifest(manifestPath, manifest))

	back, err := ReadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, manifest, back)
}
