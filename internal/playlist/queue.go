package playlist

import "slices"

// Rand is the subset of math/rand used for shuffle selection.
type Rand interface {
	IntN(n int) int
}

// PlayingQueue is an ordered list of unique tracks with a pointer to the
// one playing. The pointer is -1 when nothing from the queue is current.
type PlayingQueue struct {
	tracks       []Track
	currentIndex int
}

// NewQueue returns an empty queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{currentIndex: -1}
}

func (q *PlayingQueue) valid(i int) bool { return i >= 0 && i < len(q.tracks) }

// Current returns the current track, or nil if none.
func (q *PlayingQueue) Current() *Track { return q.At(q.currentIndex) }

// CurrentIndex returns the index of the current track (-1 if none).
func (q *PlayingQueue) CurrentIndex() int { return q.currentIndex }

// At returns the track at index, or nil if out of range.
func (q *PlayingQueue) At(index int) *Track {
	if !q.valid(index) {
		return nil
	}
	return &q.tracks[index]
}

// IndexOf returns the position of the track with the given id, or -1.
func (q *PlayingQueue) IndexOf(id string) int {
	return slices.IndexFunc(q.tracks, func(t Track) bool { return t.ID == id })
}

// HasNext returns true if there's a track after the current one.
// A detached current (-1) has no successor.
func (q *PlayingQueue) HasNext() bool {
	return q.currentIndex >= 0 && q.currentIndex < len(q.tracks)-1
}

// JumpTo sets the current index to the specified position.
// Returns the track at that position, or nil if invalid.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if !q.valid(index) {
		return nil
	}
	q.currentIndex = index
	return &q.tracks[index]
}

// Detach clears the current pointer without touching the tracks.
func (q *PlayingQueue) Detach() {
	q.currentIndex = -1
}

// Enqueue appends a track unless one with the same id is already queued.
// Returns false for duplicates.
func (q *PlayingQueue) Enqueue(t Track) bool {
	if q.IndexOf(t.ID) >= 0 {
		return false
	}
	q.tracks = append(q.tracks, t)
	return true
}

// Replace clears the queue, adds tracks (skipping duplicate ids), and sets
// index to 0. Returns the first track.
func (q *PlayingQueue) Replace(tracks ...Track) *Track {
	q.SetTracks(tracks, 0)
	return q.Current()
}

// SetTracks replaces the tracks and the current index, used on restore and
// undo. Duplicate ids are dropped; an out of range index becomes -1.
func (q *PlayingQueue) SetTracks(tracks []Track, index int) {
	q.tracks = nil
	for _, t := range tracks {
		q.Enqueue(t)
	}
	if !q.valid(index) {
		index = -1
	}
	q.currentIndex = index
}

// RemoveAt deletes the track at index. Removing the current track leaves
// the pointer on its successor, or on the new last track.
func (q *PlayingQueue) RemoveAt(index int) bool {
	if !q.valid(index) {
		return false
	}
	q.tracks = slices.Delete(q.tracks, index, index+1)
	switch {
	case q.currentIndex > index:
		q.currentIndex--
	case q.currentIndex == index:
		q.currentIndex = min(q.currentIndex, len(q.tracks)-1)
	}
	return true
}

// Move moves a track and keeps the pointer on the same logical track.
func (q *PlayingQueue) Move(from, to int) bool {
	if !q.valid(from) || !q.valid(to) {
		return false
	}
	t := q.tracks[from]
	q.tracks = slices.Insert(slices.Delete(q.tracks, from, from+1), to, t)
	switch {
	case q.currentIndex == from:
		q.currentIndex = to
	case from < q.currentIndex && to >= q.currentIndex:
		q.currentIndex--
	case from > q.currentIndex && to <= q.currentIndex && q.currentIndex >= 0:
		q.currentIndex++
	}
	return true
}

// Clear removes all tracks and resets the pointer.
func (q *PlayingQueue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}

// NextIndex returns the index a forced advance would move to, wrapping at
// the end. With shuffle on and more than one track, a position other than
// the current one is picked uniformly. Returns -1 for an empty queue.
func (q *PlayingQueue) NextIndex(shuffle bool, rnd Rand) int {
	n := len(q.tracks)
	if n == 0 {
		return -1
	}
	if shuffle && n > 1 {
		return q.randomOther(rnd)
	}
	return (q.currentIndex + 1) % n
}

// PreviousIndex is NextIndex in the opposite direction.
func (q *PlayingQueue) PreviousIndex(shuffle bool, rnd Rand) int {
	n := len(q.tracks)
	if n == 0 {
		return -1
	}
	if shuffle && n > 1 {
		return q.randomOther(rnd)
	}
	if q.currentIndex <= 0 {
		return n - 1
	}
	return q.currentIndex - 1
}

func (q *PlayingQueue) randomOther(rnd Rand) int {
	n := len(q.tracks)
	if q.currentIndex < 0 || q.currentIndex >= n {
		return rnd.IntN(n)
	}
	// Draw from n-1 slots and skip over the current one.
	i := rnd.IntN(n - 1)
	if i >= q.currentIndex {
		i++
	}
	return i
}

// Tracks returns a copy of the queued tracks.
func (q *PlayingQueue) Tracks() []Track { return slices.Clone(q.tracks) }

func (q *PlayingQueue) Len() int { return len(q.tracks) }

func (q *PlayingQueue) IsEmpty() bool { return len(q.tracks) == 0 }
