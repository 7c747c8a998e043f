package services

import "context"

type contextKey string

const (
	fileKey      contextKey = "file"
	sessionIDKey contextKey = "session_id"
	ruleKey      contextKey = "rule"
)

// WithFile annotates context with the path of the file being processed.
func WithFile(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, fileKey, path)
}

// FileFromContext returns the file path if present.
func FileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(fileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSessionID annotates context with the identifier of the current run.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the run identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRule annotates context with the description of the active rule.
func WithRule(ctx context.Context, rule string) context.Context {
	if rule == "" {
		return ctx
	}
	return context.WithValue(ctx, ruleKey, rule)
}

// RuleFromContext returns the active rule description if present.
func RuleFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ruleKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
