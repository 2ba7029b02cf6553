package graph_test

import "github.com/gomlx/exceptions"

// catch runs fn and returns the error it panicked with, if any.
func catch(fn func()) error {
	return exceptions.TryCatch[error](fn)
}
