package textfile

import "errors"

var (
	// ErrMalformedLine is returned for lines that do not follow the file format.
	ErrMalformedLine = errors.New("malformed line")
	// ErrLoadJudges is returned when the judge definitions cannot be read.
	ErrLoadJudges = errors.New("load judges failed")
)
