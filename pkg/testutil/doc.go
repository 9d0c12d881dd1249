// Package testutil provides utilities for testing textilize components.
//
// Key components:
//   - TestEnvironment: an in-memory afero tree rooted at a configuration root
//   - FileTree: declarative directory layout for rule files and inputs
//   - RuleFile: builds rule documents from lines
//   - CaptureLogs: redirects the global zerolog logger into a buffer
//
// Each test should be completely isolated with no shared state; build trees
// inline rather than reading fixtures from disk.
package testutil
