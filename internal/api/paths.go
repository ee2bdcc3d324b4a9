// Package api provides the HTTP client for the ChatBTC answer service.
package api

// GJSON paths for extracting values from answer service responses.
const (
	// PathResults is the list of per-input result lists
	PathResults = "run.results"

	// PathAnswer is the first result's first element's answer
	PathAnswer = "run.results.0.0.value.answer"
)
