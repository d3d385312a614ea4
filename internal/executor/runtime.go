package executor

import (
	"context"
)

// Runtime defines the host integration surface for field resolution,
// abstract type resolution, and leaf-value serialization used by the Executor.
//
// General contract
//   - The Executor walks the selection set depth-first in document order and
//     calls ResolveSync once per field instance. List elements are completed
//     one after another, in index order.
//   - Errors returned from any method are converted into located GraphQL errors.
//     Errors implementing ErrorCode() string additionally carry that code in
//     the error's extensions. If the field's return type is Non-Null, the
//     Executor propagates the null up to the nearest nullable ancestor.
//   - Implementations should be stateless or otherwise concurrency-safe. The
//     Executor may call these methods concurrently for different operations.
//   - Implementations must not mutate source or args values.
//
// Object/field identifiers
// - objectType is the GraphQL type name (e.g. "User").
// - field is the GraphQL field name on that type (e.g. "posts").
// - For root fields, objectType is the root type name (e.g. "Query").
// - source is the parent object value (the initial value for root fields).
// - args is the map of argument names to already-coerced Go values.
//
// Abstract types and leaf values
//   - ResolveType must return the concrete type name for interface/union values.
//   - SerializeLeafValue must coerce/serialize scalars and enums into JSON-safe
//     Go values (string, float64, int, bool, etc.). For enums, return the enum
//     name as string.
type Runtime interface {
	// ResolveSync resolves a field value.
	//
	// Returns the raw value to be completed by the Executor (including nested
	// selection sets). Return (nil, nil) to produce a GraphQL null for
	// nullable fields.
	ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// ResolveType determines the concrete runtime type name for a value of an
	// abstract GraphQL type (interface or union).
	//
	// Must return a type name that is a possible type of the abstractType in the
	// provided schema; otherwise return an error.
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go
	// value according to the GraphQL schema and custom scalar mappings.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}
