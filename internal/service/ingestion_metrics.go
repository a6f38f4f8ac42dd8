package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/football-ml/internal/metrics"
)

// IngestionMetrics tracks statistics about one provider ingestion
type IngestionMetrics struct {
	mu          sync.RWMutex
	Provider    string
	StartTime   time.Time
	Duration    time.Duration
	Seasons     int
	Fetched     int
	Stored      int
	Rejected    int
	DroppedOdds int
	Errors      int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics(provider string) *IngestionMetrics {
	return &IngestionMetrics{
		Provider:  provider,
		StartTime: time.Now(),
	}
}

// RecordSeason adds the counts of one fetched season
func (m *IngestionMetrics) RecordSeason(fetched, stored, rejected, droppedOdds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Seasons++
	m.Fetched += fetched
	m.Stored += stored
	m.Rejected += rejected
	m.DroppedOdds += droppedOdds
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// Finish stamps the duration and publishes the totals to Prometheus
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Duration = time.Since(m.StartTime)
	status := "success"
	if m.Errors > 0 {
		status = "failure"
	}
	metrics.RecordIngestionRun(m.Provider, status)
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storedRate := float64(0)
	if m.Fetched > 0 {
		storedRate = float64(m.Stored) / float64(m.Fetched) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Provider=%s, Seasons=%d, Fetched=%d, Stored=%d (%.1f%%), Rejected=%d, DroppedOdds=%d, Errors=%d, Duration=%v}",
		m.Provider,
		m.Seasons,
		m.Fetched,
		m.Stored,
		storedRate,
		m.Rejected,
		m.DroppedOdds,
		m.Errors,
		m.Duration,
	)
}
