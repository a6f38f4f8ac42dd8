package features

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/football-ml/internal/models"
)

var one = decimal.NewFromInt(1)

// ImpliedOdds holds implied probabilities and the bookmaker margin for one fixture
type ImpliedOdds struct {
	Home   *float64
	Draw   *float64
	Away   *float64
	Margin *float64
}

// OddsNormalizer converts decimal odds into implied probabilities
type OddsNormalizer struct{}

// NewOddsNormalizer creates a new odds normalizer
func NewOddsNormalizer() *OddsNormalizer {
	return &OddsNormalizer{}
}

// Normalize converts home/draw/away prices. The margin is the raw overround
// and is only reported when all three probabilities are known.
func (n *OddsNormalizer) Normalize(home, draw, away *float64) ImpliedOdds {
	pHome := impliedProbability(home)
	pDraw := impliedProbability(draw)
	pAway := impliedProbability(away)

	out := ImpliedOdds{}
	if pHome != nil {
		out.Home = toFloat(*pHome)
	}
	if pDraw != nil {
		out.Draw = toFloat(*pDraw)
	}
	if pAway != nil {
		out.Away = toFloat(*pAway)
	}
	if pHome != nil && pDraw != nil && pAway != nil {
		out.Margin = toFloat(pHome.Add(*pDraw).Add(*pAway))
	}
	return out
}

// NormalizeMatch converts the prices carried by a match record
func (n *OddsNormalizer) NormalizeMatch(m *models.MatchRecord) ImpliedOdds {
	return n.Normalize(m.HomeOdd, m.DrawOdd, m.AwayOdd)
}

// ImpliedProbability returns 1/odd, or nil when the price is absent or not a positive finite number
func ImpliedProbability(odd *float64) *float64 {
	p := impliedProbability(odd)
	if p == nil {
		return nil
	}
	return toFloat(*p)
}

func impliedProbability(odd *float64) *decimal.Decimal {
	if odd == nil || math.IsNaN(*odd) || math.IsInf(*odd, 0) || *odd <= 0 {
		return nil
	}
	p := one.Div(decimal.NewFromFloat(*odd))
	return &p
}

func toFloat(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	return &f
}
