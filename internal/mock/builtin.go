package mock

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	schema "github.com/hanpama/mockgraph/internal/schema"
)

const builtinString = "Hello World"

// source is the random source shared by built-in generators.
type source struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	seeded bool
}

func newSource(seed *uint64) *source {
	if seed == nil {
		return &source{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &source{rnd: rand.New(rand.NewPCG(*seed, *seed)), seeded: true}
}

func (s *source) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

func (s *source) float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Read fills p from the random source so seeded IDs are reproducible.
func (s *source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(p); i += 8 {
		v := s.rnd.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

func (s *source) uuid() string {
	if !s.seeded {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(s)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// builtin returns the default generator for a named type, or nil.
func (r *Registry) builtin(name string) Generator {
	t := r.schema.Types[name]
	if t == nil {
		return nil
	}
	switch t.Kind {
	case schema.TypeKindScalar:
		switch name {
		case "Int":
			return func(context.Context, any, map[string]any) (any, error) {
				return r.rand.intN(201) - 100, nil
			}
		case "Float":
			return func(context.Context, any, map[string]any) (any, error) {
				return r.rand.float64()*200 - 100, nil
			}
		case "String":
			return Value(builtinString)
		case "Boolean":
			return func(context.Context, any, map[string]any) (any, error) {
				return r.rand.intN(2) == 1, nil
			}
		case "ID":
			return func(context.Context, any, map[string]any) (any, error) {
				return r.rand.uuid(), nil
			}
		}
	case schema.TypeKindEnum:
		if len(t.EnumValues) == 0 {
			return nil
		}
		values := t.EnumValues
		return func(context.Context, any, map[string]any) (any, error) {
			return values[r.rand.intN(len(values))].Name, nil
		}
	case schema.TypeKindObject:
		return func(context.Context, any, map[string]any) (any, error) {
			return map[string]any{}, nil
		}
	case schema.TypeKindInterface, schema.TypeKindUnion:
		if len(t.PossibleTypes) == 0 {
			return nil
		}
		first := t.PossibleTypes[0]
		return func(context.Context, any, map[string]any) (any, error) {
			return map[string]any{"__typename": first}, nil
		}
	}
	return nil
}
