// Package registry provides a generic, type-safe registry system
// for managing action providers. It supports automatic registration
// through init() functions.
package registry
