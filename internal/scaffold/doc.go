// Package scaffold generates an agent project from a validated Open Agent
// Spec. It powers "oas init" and "oas update", rendering the embedded
// template set for the chosen runtime (program, README, dependency manifest,
// prompt templates) plus an .env.example, and writing the result to disk.
package scaffold
