// Package errors provides the classified error primitives used across docnav.
//
// A ClassifiedError carries a category (config, validation, content, git, ...),
// a severity and structured context. The CLI and HTTP adapters translate the
// classification into exit codes and status codes.
//
// Example usage:
//
//	err := errors.ConfigError("duplicate sidebar key").
//		WithContext("key", "/1.x/").
//		Build()
package errors
