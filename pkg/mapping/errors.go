package mapping

import (
	"github.com/cockroachdb/errors"
)

// ErrInvalidArgument marks precondition violations of Map. Test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
