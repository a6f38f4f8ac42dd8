package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/models"
)

func formFixtures() []models.MatchRecord {
	return []models.MatchRecord{
		played("d1", 1, "Alpha", "Beta", 2, 0),
		played("d2", 2, "Gamma", "Alpha", 1, 1),
		played("d3", 3, "Alpha", "Gamma", 0, 1),
		played("d4", 4, "Alpha", "Beta", 3, 3),
	}
}

func assertWindow(t *testing.T, w FormWindow, points, gf, ga float64) {
	t.Helper()
	require.True(t, w.Complete())
	assert.Equal(t, points, *w.Points)
	assert.Equal(t, gf, *w.GoalsFor)
	assert.Equal(t, ga, *w.GoalsAgainst)
	assert.Equal(t, gf-ga, *w.GoalDiff)
}

func TestAggregateTrailingWindow(t *testing.T) {
	out, err := NewFormAggregator(2).Aggregate(formFixtures())
	require.NoError(t, err)

	// d3: Alpha has d1 (W 2-0) and d2 (D 1-1)
	assertWindow(t, out[2].Home, 4, 3, 1)
	// d3: Gamma has only d2
	assert.False(t, out[2].Away.Complete())

	// d4: Alpha's last two are d2 (D 1-1) and d3 (L 0-1)
	assertWindow(t, out[3].Home, 1, 1, 2)
	// d4: Beta has only d1
	assert.False(t, out[3].Away.Complete())
}

func TestAggregatePartialWindowIsMissing(t *testing.T) {
	out, err := NewFormAggregator(5).Aggregate(formFixtures())
	require.NoError(t, err)

	// Alpha has three prior finished matches at d4
	assert.Equal(t, FormWindow{}, out[3].Home)
	assert.Nil(t, out[3].Home.Points)
}

func TestAggregateExcludesCurrentMatch(t *testing.T) {
	matches := []models.MatchRecord{
		played("m1", 1, "Alpha", "Beta", 1, 0),
		played("m2", 2, "Alpha", "Beta", 4, 0),
	}

	out, err := NewFormAggregator(1).Aggregate(matches)
	require.NoError(t, err)

	assert.False(t, out[0].Home.Complete())
	assertWindow(t, out[1].Home, 3, 1, 0)
	assertWindow(t, out[1].Away, 0, 0, 1)
}

func TestAggregateNoLookahead(t *testing.T) {
	base := formFixtures()
	before, err := NewFormAggregator(2).Aggregate(base)
	require.NoError(t, err)

	mutated := formFixtures()
	mutated[3].HomeGoals = models.IntPtr(0)
	mutated[3].AwayGoals = models.IntPtr(7)
	mutated = append(mutated, played("d5", 5, "Gamma", "Beta", 9, 9))

	after, err := NewFormAggregator(2).Aggregate(mutated)
	require.NoError(t, err)

	for i := range base {
		assert.Equal(t, before[i], after[i], base[i].ExternalID)
	}
}

func TestAggregateSameDateIsNotVisible(t *testing.T) {
	matches := []models.MatchRecord{
		played("m1", 1, "Alpha", "Beta", 1, 0),
		played("m2", 1, "Gamma", "Alpha", 0, 2),
		played("m3", 2, "Alpha", "Delta", 0, 0),
	}

	out, err := NewFormAggregator(1).Aggregate(matches)
	require.NoError(t, err)

	assert.False(t, out[1].Away.Complete())
	assertWindow(t, out[2].Home, 3, 2, 0)
}

func TestAggregateUnplayedExcludedFromHistory(t *testing.T) {
	withFixture := append(formFixtures()[:3:3], fixture("f1", 3, "Beta", "Alpha"), formFixtures()[3])

	out, err := NewFormAggregator(2).Aggregate(withFixture)
	require.NoError(t, err)

	// The unplayed fixture still gets features
	assert.False(t, out[3].Home.Complete())
	assertWindow(t, out[3].Away, 4, 3, 1)
	// and does not shift Alpha's window at d4
	assertWindow(t, out[4].Home, 1, 1, 2)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	matches := formFixtures()
	permuted := []models.MatchRecord{matches[3], matches[1], matches[0], matches[2]}

	want, err := NewFormAggregator(2).Aggregate(matches)
	require.NoError(t, err)
	got, err := NewFormAggregator(2).Aggregate(permuted)
	require.NoError(t, err)

	idx := byExternalID(permuted)
	for i, m := range matches {
		assert.Equal(t, want[i], got[idx[m.ExternalID]], m.ExternalID)
	}
}

func TestAggregateRejectsBadInput(t *testing.T) {
	_, err := NewFormAggregator(0).Aggregate(formFixtures())
	assert.Error(t, err)

	bad := formFixtures()
	bad[1].AwayGoals = nil
	_, err = NewFormAggregator(2).Aggregate(bad)
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}
