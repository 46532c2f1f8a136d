package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	historyRunIDKey   contextKey = "historyRunID"
)

// withSuppressHeader marks the context so headers and progress are not printed.
func withSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withHistoryRunID stores the history run ID in the context.
func withHistoryRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, historyRunIDKey, runID)
}

// getHistoryRunID returns the history run ID from the context.
func getHistoryRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(historyRunIDKey)
	if val == nil {
		return 0, false
	}
	runID, ok := val.(int64)
	return runID, ok
}
