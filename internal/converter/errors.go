package converter

import "errors"

var (
	// ErrSofficeNotFound means no usable soffice binary could be resolved
	// from the override path, PATH, or the known install locations.
	ErrSofficeNotFound = errors.New("soffice binary not found")

	// ErrConvertTimeout means the external process outlived the timeout.
	ErrConvertTimeout = errors.New("soffice conversion timed out")

	// ErrConvertFailed means the process exited non-zero or produced no
	// PDF; the wrapped message carries the captured stdout/stderr.
	ErrConvertFailed = errors.New("soffice conversion failed")
)
