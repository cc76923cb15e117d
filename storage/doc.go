// Package storage provides storage adapters and utilities for the
// response-cache library.
//
// This package contains adapters such as SilentErrorStorage, which wraps any
// ResponseStorage implementation to silently handle errors, and
// FunctionsStorage, which allows building custom storage implementations
// using function callbacks.
//
// This package also defines common error types for storage operations:
// ErrGet, ErrSet, and ErrDelete.
package storage
