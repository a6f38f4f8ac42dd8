// Package classifier hands assembled datasets to the downstream outcome classifier.
package classifier

import "errors"

var (
	// ErrClassifierUnavailable indicates the classifier service is unreachable or unhealthy
	ErrClassifierUnavailable = errors.New("classifier service unavailable")

	// ErrSubmissionRejected indicates the classifier refused a dataset
	ErrSubmissionRejected = errors.New("dataset submission rejected")

	// ErrInvalidResponse indicates an unreadable response from the classifier
	ErrInvalidResponse = errors.New("invalid response from classifier")
)
