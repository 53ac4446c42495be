package chunk

import "errors"

// Error taxonomy, per spec.md §7. ResourceContention is deliberately not a
// sentinel error: try_acquire returning false is not an error condition,
// it is the normal signal for a ChunkState to retry on the next update.

// ErrUseAfterDisposal is returned by any operation performed on a Chunk
// whose disposed flag has been set (see Chunk.dispose).
var ErrUseAfterDisposal = errors.New("voxelcore/chunk: use of chunk after disposal")

// ErrFormatCorruption is returned by a Codec when an on-disk chunk fails
// validation (checksum mismatch, malformed header, ...). The Loading state
// treats it the same as a LoadIOError: fall back to generation.
var ErrFormatCorruption = errors.New("voxelcore/chunk: on-disk chunk failed validation")

// ErrPositionMismatch is a specific FormatCorruption cause: the position
// header read back from storage does not match the position requested.
var ErrPositionMismatch = errors.New("voxelcore/chunk: loaded chunk position does not match request")

// ErrChunkNotFound is the IOError cause a Codec returns when no persisted
// data exists yet for a position. The Loading state treats it as an
// ordinary, expected fallback to generation.
var ErrChunkNotFound = errors.New("voxelcore/chunk: no persisted chunk at this position")

// FatalGenerationError wraps a Generator failure. It is never recovered by
// the state machine: propagating it is the caller's signal that the world
// is poisoned and should terminate (see spec.md §7, §8.4).
type FatalGenerationError struct{ Cause error }

func (e *FatalGenerationError) Error() string {
	return "voxelcore/chunk: fatal generation failure: " + e.Cause.Error()
}

func (e *FatalGenerationError) Unwrap() error { return e.Cause }

// FatalDecorationError wraps a Decorator failure. Like
// FatalGenerationError, it is never recovered.
type FatalDecorationError struct{ Cause error }

func (e *FatalDecorationError) Error() string {
	return "voxelcore/chunk: fatal decoration failure: " + e.Cause.Error()
}

func (e *FatalDecorationError) Unwrap() error { return e.Cause }
