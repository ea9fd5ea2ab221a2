package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	SaveSnapshot(s Snapshot)
	SaveSnapshotNow(s Snapshot) error
	GetSnapshot() (*Snapshot, error)
	SaveVolume(v VolumeState) error
	GetVolume() (*VolumeState, error)
	GetLastfmSession() (*LastfmSession, error)
	SaveLastfmSession(username, sessionKey string) error
	ClearLastfmSession() error
	Clear() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
