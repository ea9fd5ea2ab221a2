package playback

import (
	"context"
	"fmt"
)

// PlayByID looks up a song and plays it ad hoc. The result is discarded
// with ErrStaleLookup if another play command was issued meanwhile.
func (e *Engine) PlayByID(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.lookup == nil {
		e.mu.Unlock()
		return ErrNoLookup
	}
	e.playGen++
	gen := e.playGen
	e.mu.Unlock()

	t, err := e.lookup.Song(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if gen != e.playGen {
		return ErrStaleLookup
	}
	if err != nil {
		return fmt.Errorf("look up song %s: %w", id, err)
	}
	return e.loadAndPlayLocked(t, PlayOptions{})
}

// EnqueueByID looks up a song and appends it to the queue. A repeated
// request for the same id, or a ClearQueue issued during the lookup,
// supersedes it.
func (e *Engine) EnqueueByID(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.lookup == nil {
		e.mu.Unlock()
		return ErrNoLookup
	}
	e.lookupSeq++
	gen := e.lookupSeq
	e.enqueueGen[id] = gen
	epoch := e.queueEpoch
	e.mu.Unlock()

	t, err := e.lookup.Song(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if gen != e.enqueueGen[id] {
		return ErrStaleLookup
	}
	delete(e.enqueueGen, id)
	if epoch != e.queueEpoch {
		return ErrStaleLookup
	}

	if err != nil {
		return fmt.Errorf("look up song %s: %w", id, err)
	}
	return e.enqueueLocked(t)
}
