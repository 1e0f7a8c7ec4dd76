// Package agentspec loads and validates Open Agent Spec documents. A spec is
// kept as a YAML node tree so that key order and scalar tags survive parsing;
// Validate walks that tree in a fixed order and reports the first structural
// problem as either a MissingFieldError or an InvalidValueError. Decode runs
// the same pass and returns the typed AgentSpec consumed by the scaffold
// package.
package agentspec
