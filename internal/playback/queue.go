package playback

import (
	"fmt"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// Enqueue appends t to the queue. A track already queued is reported with
// ErrAlreadyQueued and leaves the queue unchanged.
func (e *Engine) Enqueue(t playlist.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.enqueueLocked(t)
}

func (e *Engine) enqueueLocked(t playlist.Track) error {
	if !e.queue.Enqueue(t) {
		e.noticeLocked(NoticeAlreadyQueued, t.DisplayTitle()+" is already queued")
		return fmt.Errorf("%s: %w", t.ID, ErrAlreadyQueued)
	}
	e.recordHistoryLocked()
	e.emitQueueLocked()
	e.persistLocked()
	return nil
}

// Dequeue removes the queue entry at index. Removing the current entry
// moves to the track that takes its place, loading it only if playback
// was active; removing the only entry stops playback.
func (e *Engine) Dequeue(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if index < 0 || index >= e.queue.Len() {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	current := e.queue.CurrentIndex()
	if index != current {
		e.queue.RemoveAt(index)
		e.recordHistoryLocked()
		e.emitQueueLocked()
		e.persistLocked()
		return nil
	}

	if e.queue.Len() == 1 {
		e.queue.Clear()
		e.recordHistoryLocked()
		e.emitQueueLocked()
		e.unloadLocked()
		return nil
	}

	wasPlaying := e.state == StatePlaying || (e.state == StateLoading && e.pendingPlay)
	e.queue.RemoveAt(index)
	e.recordHistoryLocked()
	next := *e.queue.Current()

	if wasPlaying {
		e.playGen++
		return e.loadLocked(next, e.queue.CurrentIndex(), current, true)
	}

	// Paused: show the replacement without loading it until Play.
	prev := e.currentCopyLocked()
	e.unloadMediaLocked()
	e.current = &next
	e.fromQueue = true
	e.elapsed = 0
	e.duration = next.DurationHint
	e.sourceRef = next.AudioRef
	e.emitTrackLocked(prev, current)
	e.emitQueueLocked()
	e.emitPositionLocked()
	if e.state != StateIdle {
		e.setStateLocked(StatePaused)
	}
	e.persistNowLocked()
	return nil
}

// unloadLocked drops the current track and returns to Idle.
func (e *Engine) unloadLocked() {
	prev := e.currentCopyLocked()
	prevIndex := e.queue.CurrentIndex()
	e.unloadMediaLocked()
	e.current = nil
	e.fromQueue = false
	e.elapsed = 0
	e.duration = 0
	e.sourceRef = ""
	if prev != nil {
		e.emitTrackLocked(prev, prevIndex)
	}
	e.emitPositionLocked()
	e.setStateLocked(StateIdle)
	e.persistNowLocked()
}

// ClearQueue empties the queue. A track started from the queue keeps
// playing detached from it; an ad-hoc play is unloaded.
func (e *Engine) ClearQueue() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.queueEpoch++
	adHoc := e.current != nil && !e.fromQueue
	e.queue.Clear()
	e.recordHistoryLocked()
	e.emitQueueLocked()
	if adHoc {
		e.unloadLocked()
		return
	}
	e.persistLocked()
}

// Move moves a queue entry, keeping the pointer on the same track.
func (e *Engine) Move(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	n := e.queue.Len()
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: %d -> %d", ErrIndexOutOfRange, from, to)
	}
	if from == to {
		return nil
	}
	e.queue.Move(from, to)
	e.recordHistoryLocked()
	e.emitQueueLocked()
	e.persistLocked()
	return nil
}

// Undo restores the previous queue contents.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.applyHistoryLocked(entry)
	return true
}

// Redo reapplies an undone queue change.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.applyHistoryLocked(entry)
	return true
}

// applyHistoryLocked swaps in a recorded queue. The pointer follows the
// track that is actually current, whatever was current when recorded.
func (e *Engine) applyHistoryLocked(entry playlist.HistoryEntry) {
	entry.Apply(e.queue)
	e.queue.Detach()
	if e.current != nil && e.fromQueue {
		if i := e.queue.IndexOf(e.current.ID); i >= 0 {
			e.queue.JumpTo(i)
		}
	}
	e.emitQueueLocked()
	e.persistLocked()
}
