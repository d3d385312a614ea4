// Package executor implements a synchronous GraphQL executor with explicit
// runtime hooks for field resolution, abstract-type resolution and leaf
// serialization.
//
// # Overview
//
// The executor walks the operation's selection set depth-first, in document
// order, and asks the injected Runtime for every field value it needs:
//   - Completes values according to the GraphQL specification (lists, leafs,
//     objects, abstract types), including Non-Null null-propagation rules.
//   - Accumulates located errors while allowing partial success.
//   - Produces response objects (*Object) that serialize their keys in
//     selection order.
//
// # Preparation
//
// Before execution, the executor:
//  1. Chooses the operation (by name or by uniqueness when unnamed).
//  2. Coerces variables from the provided input against operation variable
//     definitions. Errors here stop execution and produce a result with no
//     data.
//  3. Determines the root object type from the operation
//     (Query/Mutation/Subscription) and collects the root selection set.
//
// # Field collection
//
// Field collection follows CollectFields from the GraphQL specification:
// @skip and @include are honoured, fragments are visited at most once per
// selection set, and a fragment applies when its type condition is the
// object type itself or an interface or union the object type belongs to.
//
// Queries are executed without prior validation. References the schema
// cannot satisfy do not fail the request; they are reported as located
// errors carrying extensions.code SCHEMA_MISMATCH:
//   - a field the parent type does not define,
//   - a spread of a fragment the document does not define,
//   - a fragment whose type condition names an unknown type.
//
// # Value completion
//
// For every field the executor calls Runtime.ResolveSync with the parent
// value and coerced arguments, then completes the result against the
// field's declared type:
//   - Non-Null: a null result records "Cannot return null for non-nullable
//     field" (unless an error was already recorded at that path) and nulls
//     the nearest nullable ancestor.
//   - List: any slice or array is accepted; items are completed in order
//     with the index appended to the path.
//   - Scalar/Enum: Runtime.SerializeLeafValue.
//   - Object: the merged sub-selection is executed with the value as source.
//   - Interface/Union: Runtime.ResolveType picks the concrete object type,
//     which must be one of the abstract type's possible types.
//
// # Errors
//
// Every error is reported as a GraphQLError with the response path at which
// it occurred. Errors that implement
//
//	interface{ ErrorCode() string }
//
// anywhere in their wrap chain contribute that code as extensions.code.
package executor
