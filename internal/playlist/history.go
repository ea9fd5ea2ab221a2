package playlist

// HistoryEntry is one recorded queue state.
type HistoryEntry struct {
	Tracks    []Track
	CurrentID string // id of the current track when recorded, "" if detached
}

// QueueHistory keeps a bounded list of queue states for undo/redo.
type QueueHistory struct {
	entries []HistoryEntry
	current int // index of current entry (-1 = before any entry)
	maxSize int
}

// NewQueueHistory creates a new history with the given maximum size.
func NewQueueHistory(maxSize int) *QueueHistory {
	return &QueueHistory{
		entries: make([]HistoryEntry, 0, maxSize),
		current: -1,
		maxSize: maxSize,
	}
}

// Record saves the state of q. Redo entries are discarded.
func (h *QueueHistory) Record(q *PlayingQueue) {
	entry := HistoryEntry{Tracks: q.Tracks()}
	if cur := q.Current(); cur != nil {
		entry.CurrentID = cur.ID
	}

	if h.current < len(h.entries)-1 {
		h.entries = h.entries[:h.current+1]
	}
	h.entries = append(h.entries, entry)
	h.current = len(h.entries) - 1

	if len(h.entries) > h.maxSize {
		excess := len(h.entries) - h.maxSize
		h.entries = h.entries[excess:]
		h.current -= excess
	}
}

// Undo returns the previous queue state.
func (h *QueueHistory) Undo() (HistoryEntry, bool) {
	if !h.CanUndo() {
		return HistoryEntry{}, false
	}
	h.current--
	return h.entryCopy(h.current), true
}

// Redo returns the next queue state.
func (h *QueueHistory) Redo() (HistoryEntry, bool) {
	if !h.CanRedo() {
		return HistoryEntry{}, false
	}
	h.current++
	return h.entryCopy(h.current), true
}

// CanUndo returns true if there is a previous state to undo to.
func (h *QueueHistory) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if there is a next state to redo to.
func (h *QueueHistory) CanRedo() bool {
	return h.current < len(h.entries)-1
}

func (h *QueueHistory) entryCopy(i int) HistoryEntry {
	e := h.entries[i]
	tracks := make([]Track, len(e.Tracks))
	copy(tracks, e.Tracks)
	return HistoryEntry{Tracks: tracks, CurrentID: e.CurrentID}
}

// Apply restores entry into q, keeping the pointer on the recorded
// current track if it is still present.
func (e HistoryEntry) Apply(q *PlayingQueue) {
	index := -1
	for i, t := range e.Tracks {
		if t.ID == e.CurrentID && e.CurrentID != "" {
			index = i
			break
		}
	}
	q.SetTracks(e.Tracks, index)
}
