// Package gosymbolic provides a symbolic math engine for Go.
//
// Design goals:
//   - Immutable, shared expression trees with structural hashing
//   - Canonical term ordering so like terms sit next to each other
//   - Rule-based simplification that always terminates
//   - Compiled bytecode evaluation (scalar, batched and parallel)
//   - IEEE double precision throughout
//
// Expressions are built with the constructors N, S, AddOf, MulOf, DivOf,
// PowOf and FuncOf, or parsed from text with Parse. Derive, Simplify and
// Compile all take functional Options sharing one configuration surface.
package gosymbolic
