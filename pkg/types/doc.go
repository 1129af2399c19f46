// Package types defines the tree node and run entities, configuration,
// ratio arithmetic, and standard errors for the Barricade analysis core.
// See docs/ARCHITECTURE.md § Data Model.
package types
