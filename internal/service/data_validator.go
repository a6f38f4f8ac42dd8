package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/models"
)

// maxFixtureHorizon bounds how far ahead a scheduled fixture may be
const maxFixtureHorizon = 2 * 365 * 24 * time.Hour

// DataValidator validates provider match records before they are persisted
type DataValidator struct {
	validate *validator.Validate
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger logrus.FieldLogger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// ValidateMatch returns every problem found with m; an empty result means valid
func (v *DataValidator) ValidateMatch(m *models.MatchRecord) []string {
	var problems []string

	if err := v.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if err := m.CheckIntegrity(0); err != nil {
		var ierr *models.DataIntegrityError
		if errors.As(err, &ierr) {
			problems = append(problems, ierr.Reason)
		} else {
			problems = append(problems, err.Error())
		}
	}

	if m.HomeGoals != nil && *m.HomeGoals < 0 {
		problems = append(problems, fmt.Sprintf("home_goals cannot be negative, got %d", *m.HomeGoals))
	}
	if m.AwayGoals != nil && *m.AwayGoals < 0 {
		problems = append(problems, fmt.Sprintf("away_goals cannot be negative, got %d", *m.AwayGoals))
	}
	if m.Matchday != nil && *m.Matchday <= 0 {
		problems = append(problems, fmt.Sprintf("matchday must be positive, got %d", *m.Matchday))
	}

	now := v.now()
	if !m.UTCDate.IsZero() && m.UTCDate.After(now.Add(maxFixtureHorizon)) {
		problems = append(problems, "fixture scheduled more than 2 years in future")
	}
	// a result reported before kick-off would leak into every later feature
	if m.IsPlayed() && m.UTCDate.After(now) {
		problems = append(problems, fmt.Sprintf("result reported for a fixture kicking off at %s", m.UTCDate.Format(time.RFC3339)))
	}

	return problems
}

// ValidateOdd reports whether a decimal price is usable
func (v *DataValidator) ValidateOdd(odd *float64) bool {
	return odd == nil || (!math.IsNaN(*odd) && !math.IsInf(*odd, 0) && *odd > 0)
}

// IsValidSeason checks that season is a plausible starting year
func (v *DataValidator) IsValidSeason(season int) bool {
	return season > 1870 && season <= v.now().Year()+1
}
