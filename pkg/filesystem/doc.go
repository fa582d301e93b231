// Package filesystem provides filesystem implementations for codefix.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem used when materializing
// newly created documents to disk.
package filesystem
