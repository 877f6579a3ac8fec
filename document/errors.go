package document

import (
	"errors"

	"github.com/shua5115/lsml/internal/arena"
)

// System and Retrieval category errors from spec.md section 7. Parse
// category errors are not here: those are int-tagged parser.ErrorKind
// values delivered to a logging callback, never returned as Go errors.
var (
	ErrOutOfMemory    = errors.New("document: out of memory")
	ErrParseAborted   = errors.New("document: parse aborted")
	ErrNotFound       = errors.New("document: not found")
	ErrInvalidData    = errors.New("document: invalid document")
	ErrInvalidKey     = errors.New("document: invalid or empty key")
	ErrInvalidSection = errors.New("document: null or foreign section")
	ErrSectionType    = errors.New("document: section is the wrong variant")

	// ErrSectionNameReused and ErrTableKeyReused are the Section Store
	// API's collision responses (section 4.7). The parser catches these
	// and turns them into the matching logged parser.ErrorKind instead
	// of propagating them.
	ErrSectionNameReused = errors.New("document: section name already in use")
	ErrTableKeyReused    = errors.New("document: table key already in use")
)

// wrapArenaErr translates the internal arena allocator's own out-of-memory
// sentinel into ErrOutOfMemory, so that every mutating Document call keeps
// its documented errors.Is(err, ErrOutOfMemory) contract regardless of
// which layer (arena, chunkmap, intern) detected the exhaustion. Any other
// error passes through unchanged.
func wrapArenaErr(err error) error {
	if errors.Is(err, arena.ErrOutOfMemory) {
		return ErrOutOfMemory
	}
	return err
}
