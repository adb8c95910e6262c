package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidFelt is returned when a value is not a valid Starknet field element
	ErrInvalidFelt = errors.New("invalid felt")

	// ErrDependencyCycle is returned when deployments depend on each other circularly
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrNothingToSwap is returned when the computed trade amount is zero
	ErrNothingToSwap = errors.New("nothing to swap")
)

// ConfigError reports a missing or malformed configuration value.
type ConfigError struct {
	Field       string
	Message     string
	Suggestions []string
	Err         error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Field != "" {
		fmt.Fprintf(&b, " (%s)", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "\n\nDid you mean one of these?\n  %s", strings.Join(e.Suggestions, "\n  "))
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ArtifactNotFoundError is returned when a contract has no source or compiled artifacts.
type ArtifactNotFoundError struct {
	Name      string
	Reason    string
	Available []string
}

func (e *ArtifactNotFoundError) Error() string {
	msg := fmt.Sprintf("artifact for contract %q not found", e.Name)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

func (e *ArtifactNotFoundError) Unwrap() error { return ErrNotFound }

// ChainCallError wraps a failed interaction with the chain.
type ChainCallError struct {
	Op     string
	Target string
	Err    error
}

func (e *ChainCallError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("chain call %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("chain call %s on %s failed: %v", e.Op, e.Target, e.Err)
}

func (e *ChainCallError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed read or write of a record file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
