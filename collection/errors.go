package collection

import (
	"github.com/cockroachdb/errors"
)

// Errors returned to callers of the collection API. All of them are
// recoverable and must be discriminated with errors.Is.
var (
	ErrNoSuchReader                 = errors.New("no such reader")
	ErrReaderAlreadyExists          = errors.New("reader already exists")
	ErrNoSuchCursor                 = errors.New("no such cursor")
	ErrNoSuchPhantom                = errors.New("no such phantom")
	ErrOutdatedGeneration           = errors.New("outdated generation")
	ErrUnsupportedActionOnNonManual = errors.New("unsupported action on non manual collection")
	ErrCannotPutInManualCollection  = errors.New("cannot put in manual collection without generation id")
	ErrNextGenerationIsNotStarted   = errors.New("next generation is not started")
	ErrInvalidGenerationID          = errors.New("invalid generation id")
	ErrInvalidGenerationRange       = errors.New("invalid generation range")
	ErrReaderBehindWatermark        = errors.New("reader is behind cleanup watermark")
	ErrCollectionClosed             = errors.New("collection is closed")
	ErrInvalidLimit                 = errors.New("limit must be positive")

	errInitialItemNotFound = errors.New("initial item not found")
)
