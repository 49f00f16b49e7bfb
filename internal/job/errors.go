package job

import "errors"

var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidState = errors.New("invalid job state")
	ErrDuplicateRun = errors.New("playlist already being archived")
)
