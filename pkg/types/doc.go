// Package types defines the board entity model, the Store persistence port,
// configuration and the error values shared across the module.
package types
