package cmd

import (
	"cmp"
	"context"
	"io"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named key, or fallback if ctx carries no
// kong.Context or the variable is undefined.
func kongVar(ctx context.Context, key, fallback string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[key]; ok {
			return v
		}
	}

	return fallback
}

// writer returns w, or fallback if w is nil.
func writer(w, fallback io.Writer) io.Writer {
	return cmp.Or(w, fallback)
}
