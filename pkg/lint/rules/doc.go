// Package rules registers every haiku lint rule.
//
// Rules are organized by category:
//   - correctness: code that compiles but likely misbehaves (HK01-HK06)
//   - style: naming and layout conventions (HK10-HK12)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/haiku/pkg/lint/rules"
package rules
