// Package logging defines the structured logger used by the client and the
// server, and a way to attach per-request fields through the context.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs, e.g.:
//
//	log.Info(ctx, "chunk sent", "id", id, "index", idx)
//
// Fields attached to ctx with ContextWith are added to every record.
type Logger interface {
	// Debug logs per-chunk progress and similar detail.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn logs conditions the caller recovered from.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying additional log fields.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := Fields(ctx)
	fields := make([]any, 0, len(prev)+len(args))
	fields = append(fields, prev...)
	fields = append(fields, args...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

// Fields returns the log fields attached to ctx.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	return f
}
