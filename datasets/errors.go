package datasets

import "errors"

// Common errors. Callers can match these with errors.Is even when they come
// back wrapped with file or index context.
var (
	// ErrBadConfig indicates an invalid option combination, such as
	// LastLabelOnly without a window length.
	ErrBadConfig = errors.New("invalid dataset configuration")

	// ErrSchema indicates a CSV header that does not match the fixed
	// grasp-and-lift schema for its file kind.
	ErrSchema = errors.New("csv header does not match schema")

	// ErrMalformedRow indicates a CSV row whose field count does not match
	// the expected channel count.
	ErrMalformedRow = errors.New("malformed csv row")

	// ErrMissingData indicates the requested root/split directory is absent
	// and downloading is disabled.
	ErrMissingData = errors.New("dataset directory does not exist")

	// ErrRange indicates a flat index outside [0, Len()).
	ErrRange = errors.New("index out of range")

	// ErrDownload indicates the archive fetch returned an unexpected status
	// or a corrupted size.
	ErrDownload = errors.New("archive download failed")

	// ErrDuplicateSeries indicates a series id registered twice; the CSV and
	// cache loading paths must never silently overwrite a series.
	ErrDuplicateSeries = errors.New("duplicate series id")

	// ErrBadCache indicates a binary cache file that cannot be decoded.
	ErrBadCache = errors.New("corrupt binary cache")
)
