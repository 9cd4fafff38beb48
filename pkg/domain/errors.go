package domain

import (
	"fmt"
	"strings"
)

// StructuralErrorKind tags the class of an organigram structure violation.
type StructuralErrorKind string

// Structural violation classes detected by the tree builder.
const (
	// StructuralCycle marks a parent-reference cycle within a snapshot.
	StructuralCycle StructuralErrorKind = "cycle"
	// StructuralMultipleRoots marks a snapshot with more than one unit
	// whose parent cannot be resolved.
	StructuralMultipleRoots StructuralErrorKind = "multiple_roots"
)

// StructuralError reports an invalid organigram snapshot. A snapshot is
// never auto-repaired; the caller decides how to surface the failure.
//
// A dangling parent reference is deliberately not a structural error: a
// unit whose parent is absent from the snapshot is promoted to a root
// candidate instead, because the parent may simply not be valid at the
// requested date.
type StructuralError struct {
	Kind StructuralErrorKind
	// IDs carries the offending unit ids: the cycle chain in traversal
	// order for StructuralCycle, the root candidates for
	// StructuralMultipleRoots.
	IDs []string
}

// Error implements the error interface.
func (e StructuralError) Error() string {
	switch e.Kind {
	case StructuralCycle:
		return fmt.Sprintf("org unit parent cycle: %s", strings.Join(e.IDs, " -> "))
	case StructuralMultipleRoots:
		return fmt.Sprintf("multiple organigram roots: %s", strings.Join(e.IDs, ", "))
	default:
		return fmt.Sprintf("structural error %s: %s", e.Kind, strings.Join(e.IDs, ", "))
	}
}

// ConfigErrorKind tags a configuration failure class.
type ConfigErrorKind string

// Configuration failure classes.
const (
	// ConfigMissingServerURL marks a schema merge attempted without an
	// advertised server URL.
	ConfigMissingServerURL ConfigErrorKind = "missing_server_url"
)

// ConfigError reports a missing or invalid configuration value required by
// an engine. It is fatal for that call only.
type ConfigError struct {
	Kind ConfigErrorKind
}

// Error implements the error interface.
func (e ConfigError) Error() string {
	if e.Kind == ConfigMissingServerURL {
		return "server URL not configured"
	}
	return fmt.Sprintf("config error %s", e.Kind)
}

// SchemaError reports an unresolvable conflict between source OpenAPI
// documents: the same component name defined with differing bodies.
type SchemaError struct {
	Component string
	Documents []string
}

// Error implements the error interface.
func (e SchemaError) Error() string {
	return fmt.Sprintf("conflicting definitions of component %q across documents %s",
		e.Component, strings.Join(e.Documents, ", "))
}

// ErrNotFound reports a missing entity on the read path.
type ErrNotFound struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
