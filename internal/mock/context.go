package mock

import "context"

// FieldInfo describes the field a generator is producing a value for.
// Index is the position of the nearest enclosing list element, or -1.
type FieldInfo struct {
	ParentType string
	Field      string
	Index      int
}

type fieldInfoKey struct{}

func withFieldInfo(ctx context.Context, fi FieldInfo) context.Context {
	return context.WithValue(ctx, fieldInfoKey{}, fi)
}

func withIndex(ctx context.Context, i int) context.Context {
	fi, _ := FieldFromContext(ctx)
	fi.Index = i
	return withFieldInfo(ctx, fi)
}

// FieldFromContext returns the field being resolved.
func FieldFromContext(ctx context.Context) (FieldInfo, bool) {
	fi, ok := ctx.Value(fieldInfoKey{}).(FieldInfo)
	if !ok {
		return FieldInfo{Index: -1}, false
	}
	return fi, true
}

// IndexFromContext returns the index of the list element being generated.
func IndexFromContext(ctx context.Context) (int, bool) {
	fi, ok := FieldFromContext(ctx)
	if !ok || fi.Index < 0 {
		return -1, false
	}
	return fi.Index, true
}
