package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Grading completed
	ExitError   = 1 // Runtime or provider error
	ExitUsage   = 2 // Invalid flags or arguments
)

// UsageError indicates invalid flags or arguments rather than a runtime
// failure.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			os.Exit(ExitUsage)
		}

		os.Exit(ExitError)
	}
}
