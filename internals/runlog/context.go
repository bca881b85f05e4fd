package runlog

import "context"

type contextKey struct{}

func WithContext(ctx context.Context, buf *Buffer) context.Context {
	return context.WithValue(ctx, contextKey{}, buf)
}

// FromContext returns the Buffer carried by ctx, or nil when there is none.
// Buffer methods tolerate nil receivers, so callers can log unconditionally.
func FromContext(ctx context.Context) *Buffer {
	buf, ok := ctx.Value(contextKey{}).(*Buffer)
	if !ok {
		return nil
	}
	return buf
}
