package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/football-ml/internal/models"
)

// dateOnlyLayout is accepted for utc_date in hand-made tables
const dateOnlyLayout = "2006-01-02"

// WriteMatches writes a raw provider table
func WriteMatches(w io.Writer, matches []models.MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InputColumns); err != nil {
		return err
	}
	for i := range matches {
		if err := cw.Write(matchCells(&matches[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCanonical writes the merged, labeled table
func WriteCanonical(w io.Writer, matches []models.CanonicalMatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CanonicalColumns); err != nil {
		return err
	}
	for i := range matches {
		if err := cw.Write(canonicalCells(&matches[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFeatures writes a feature table. Missing values are empty cells.
func WriteFeatures(w io.Writer, rows []models.FeatureRow, featureColumns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeatureTableColumns(featureColumns)); err != nil {
		return err
	}
	for i := range rows {
		cells := canonicalCells(&rows[i].CanonicalMatch)
		for _, v := range rows[i].Vector(featureColumns) {
			cells = append(cells, formatFloat(v))
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func matchCells(m *models.MatchRecord) []string {
	return []string{
		string(m.Provider),
		m.UTCDate.UTC().Format(time.RFC3339),
		strconv.Itoa(m.Season),
		formatInt(m.Matchday),
		m.HomeTeam,
		m.AwayTeam,
		formatInt(m.HomeGoals),
		formatInt(m.AwayGoals),
		m.ExternalID,
		formatFloat(m.HomeOdd),
		formatFloat(m.DrawOdd),
		formatFloat(m.AwayOdd),
	}
}

func canonicalCells(c *models.CanonicalMatch) []string {
	return append(matchCells(&c.MatchRecord),
		c.MatchKey,
		string(c.SecondaryProvider),
		c.SecondaryExternalID,
		strconv.Itoa(int(c.Label)),
	)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// table is a parsed CSV with a header index
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(r io.Reader, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse CSV: missing header row")
	}

	headers := records[0]
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return &table{index: index, rows: records[1:]}, nil
}

// cell returns the trimmed value of a column, or "" when the column or cell is absent
func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadMatches reads a raw provider table. Odds columns are optional.
func ReadMatches(r io.Reader) ([]models.MatchRecord, error) {
	t, err := readTable(r, RequiredInputColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.MatchRecord, 0, len(t.rows))
	for i, row := range t.rows {
		m, err := t.match(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ReadCanonical reads a merged table written by WriteCanonical
func ReadCanonical(r io.Reader) ([]models.CanonicalMatch, error) {
	required := append(append([]string(nil), RequiredInputColumns...), ColMatchKey, ColLabel)
	t, err := readTable(r, required)
	if err != nil {
		return nil, err
	}
	out := make([]models.CanonicalMatch, 0, len(t.rows))
	for i, row := range t.rows {
		m, err := t.match(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		label, err := strconv.Atoi(t.cell(row, ColLabel))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid label: %w", i+2, err)
		}
		out = append(out, models.CanonicalMatch{
			MatchRecord:         m,
			MatchKey:            t.cell(row, ColMatchKey),
			SecondaryProvider:   models.Provider(t.cell(row, ColSecondaryProvider)),
			SecondaryExternalID: t.cell(row, ColSecondaryExternalID),
			Label:               models.Label(label),
		})
	}
	return out, nil
}

func (t *table) match(row []string) (models.MatchRecord, error) {
	var m models.MatchRecord
	var err error

	m.Provider = models.Provider(t.cell(row, ColProvider))
	if m.UTCDate, err = parseDate(t.cell(row, ColUTCDate)); err != nil {
		return m, err
	}
	if m.Season, err = strconv.Atoi(t.cell(row, ColSeason)); err != nil {
		return m, fmt.Errorf("invalid season: %w", err)
	}
	if m.Matchday, err = parseInt(t.cell(row, ColMatchday)); err != nil {
		return m, fmt.Errorf("invalid matchday: %w", err)
	}
	m.HomeTeam = t.cell(row, ColHomeTeam)
	m.AwayTeam = t.cell(row, ColAwayTeam)
	if m.HomeGoals, err = parseInt(t.cell(row, ColHomeGoals)); err != nil {
		return m, fmt.Errorf("invalid home_goals: %w", err)
	}
	if m.AwayGoals, err = parseInt(t.cell(row, ColAwayGoals)); err != nil {
		return m, fmt.Errorf("invalid away_goals: %w", err)
	}
	m.ExternalID = t.cell(row, ColExternalID)
	if m.HomeOdd, err = parseFloat(t.cell(row, ColHomeOdd)); err != nil {
		return m, fmt.Errorf("invalid home_odd: %w", err)
	}
	if m.DrawOdd, err = parseFloat(t.cell(row, ColDrawOdd)); err != nil {
		return m, fmt.Errorf("invalid draw_odd: %w", err)
	}
	if m.AwayOdd, err = parseFloat(t.cell(row, ColAwayOdd)); err != nil {
		return m, fmt.Errorf("invalid away_odd: %w", err)
	}
	return m, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid utc_date %q", s)
	}
	return t, nil
}

// parseInt accepts integral floats such as "2.0" as written by dataframe tools
func parseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	v := int(f)
	return &v, nil
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// WriteFile creates path, including parent directories, and streams a table into it
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// ReadMatchesFile reads a raw provider table from disk
func ReadMatchesFile(path string) ([]models.MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	matches, err := ReadMatches(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return matches, nil
}

// ReadCanonicalFile reads a merged table from disk
func ReadCanonicalFile(path string) ([]models.CanonicalMatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	matches, err := ReadCanonical(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return matches, nil
}
