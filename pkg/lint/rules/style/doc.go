// Package style provides lint rules for naming and layout conventions.
//
// Rules in this package:
//   - HK10: Empty block in if, else or while
//   - HK11: Names follow snake_case, struct names UpperCamelCase
//   - HK12: Function has too many parameters
package style
