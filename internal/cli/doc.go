// Package cli implements the gridrule command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Results
// are printed with lipgloss styles and grids are drawn in color, one cell
// per two terminal columns.
//
// # Commands
//
// The main commands are:
//   - solve: Infer a rule from a task's training pairs and predict its test outputs
//   - infer: Infer a rule only and report how each solver scored
//   - denoise: Repair a single tiled grid
//   - show: Browse a task interactively, optionally with predictions
//   - serve: Expose the pipeline as a JSON HTTP API
//   - cache: Manage cached rules and predictions
//
// # Configuration
//
// Defaults come from ~/.config/gridrule/config.toml (see package config);
// flags override them.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which traces
// every inference decision.
package cli
