// Package kernel contains shared value objects used across the domain model:
// identifiers, actor roles, and delivery geography. Every type here is
// immutable and validated at construction; zero values fail Validate.
package kernel
