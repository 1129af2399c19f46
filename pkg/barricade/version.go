// Package barricade holds module-wide metadata for the Barricade
// retrograde checkmate-barrier analyzer.
package barricade

// Version is the current module version.
const Version = "0.1.0"
