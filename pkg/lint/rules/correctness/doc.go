// Package correctness provides lint rules for code that compiles but most
// likely does not do what was meant.
//
// Rules in this package:
//   - HK01: Local variable is never read
//   - HK02: Parameter is never read
//   - HK03: Variable shadows an enclosing variable or parameter
//   - HK04: Statement after return, break or continue
//   - HK05: Assignment of a place to itself
//   - HK06: Condition is a boolean literal
package correctness
