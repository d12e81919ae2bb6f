// Package ir provides the type model for the WebIDL binding resolver.
//
// It holds the syntax-level model produced by the parser (declarations,
// members, type references), the resolved interface graph produced by
// the linker, and the flattened per-interface contract produced by the
// emitter. Every other internal package imports ir; ir imports only
// diag. This keeps the model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Declarations are immutable after parse; partial-interface merges
//     are performed two-phase by the linker, never by mutating the
//     target declaration in place.
//   - Extended attributes are carried opaquely as an ordered list; the
//     resolver records them but never interprets their semantics.
//   - All JSON tags use snake_case.
package ir
