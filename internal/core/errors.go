package core

import "github.com/pkg/errors"

var (
	// ErrAborted is returned when the user cancels an interactive prompt.
	// It is a cancellation, not a failure of the input itself.
	ErrAborted = errors.New("aborted")

	// ErrNoManifest is returned when a skill folder has no manifest.json.
	ErrNoManifest = errors.New("folder doesn't contain a manifest")

	// ErrInvalidArchive matches any *InvalidArchiveError.
	ErrInvalidArchive = errors.New("invalid archive")
)

// ValidationError lists every problem found in a manifest.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := "invalid manifest"
	for i, p := range e.Problems {
		if i == 0 {
			msg += ": " + p
			continue
		}
		msg += "; " + p
	}
	return msg
}

// InvalidArchiveError reports a file that is not a readable tar container.
type InvalidArchiveError struct {
	Path string
	Err  error
}

func (e *InvalidArchiveError) Error() string {
	return e.Path + " is not a tar archive"
}

func (e *InvalidArchiveError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidArchive) match.
func (e *InvalidArchiveError) Is(target error) bool {
	return target == ErrInvalidArchive
}
