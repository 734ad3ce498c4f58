package interviews

import "errors"

var (
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrFileRequired    = errors.New("file is required")
	ErrUnknownArtifact = errors.New("unknown download kind")
	ErrNotConfigured   = errors.New("analysis service is not configured")
	ErrStorage         = errors.New("could not stage upload")
)
