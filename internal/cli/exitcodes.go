package cli

import (
	"errors"

	"github.com/yaklabco/lifespan/internal/configloader"
	"github.com/yaklabco/lifespan/pkg/fsutil"
)

// Exit codes for lifespan.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitInconsistencies indicates tracking completed but some links
	// pointed at untracked entities (with --strict).
	ExitInconsistencies = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrInconsistenciesFound is returned by track --strict when the tracker
// reported links to untracked entities.
var ErrInconsistenciesFound = errors.New("inconsistent links found")

// ErrInvalidUsage marks errors caused by bad flags or arguments.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCodeForError maps a command error to a process exit code.
func ExitCodeForError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInconsistenciesFound):
		return ExitInconsistencies
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
