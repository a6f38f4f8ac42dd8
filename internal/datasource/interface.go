package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/football-ml/internal/models"
)

// MatchSource defines the interface for fetching match tables from external providers
type MatchSource interface {
	// FetchMatches retrieves every fixture of one season, played or not
	FetchMatches(ctx context.Context, season int) ([]models.MatchRecord, error)

	// Provider returns the provider tag stamped on every record
	Provider() models.Provider

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// FetchSeasons fetches several seasons and concatenates them in the given order
func FetchSeasons(ctx context.Context, src MatchSource, seasons []int) ([]models.MatchRecord, error) {
	var all []models.MatchRecord
	for _, season := range seasons {
		matches, err := src.FetchMatches(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("%s season %d: %w", src.Name(), season, err)
		}
		all = append(all, matches...)
	}
	return all, nil
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error code
func (e DataSourceError) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors, one per error code
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrDisabled             = errors.New("data source disabled")
)

var codeSentinels = map[string]error{
	ErrCodeRateLimitExceeded:    ErrRateLimitExceeded,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeNotFound:             ErrNotFound,
	ErrCodeInvalidData:          ErrInvalidData,
	ErrCodeNetworkError:         ErrNetworkError,
	ErrCodeServerError:          ErrServerError,
	ErrCodeDisabled:             ErrDisabled,
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

const dataSourceDisabledMsg = "data source is disabled"
