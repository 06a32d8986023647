package rules

// Import all rule subpackages to register them with the global registry.
import (
	_ "github.com/leapstack-labs/haiku/pkg/lint/rules/correctness"
	_ "github.com/leapstack-labs/haiku/pkg/lint/rules/style"
)
