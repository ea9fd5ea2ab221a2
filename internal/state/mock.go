// internal/state/mock.go
package state

import "sync"

// Mock is a test double for Manager.
type Mock struct {
	mu sync.Mutex

	snapshot  *Snapshot
	volume    *VolumeState
	session   *LastfmSession
	saves     int
	syncSaves int
	volumeErr error
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SaveSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.snapshot = &s
}

func (m *Mock) SaveSnapshotNow(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncSaves++
	m.snapshot = &s
	return nil
}

func (m *Mock) GetSnapshot() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *Mock) SaveVolume(v VolumeState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volumeErr != nil {
		return m.volumeErr
	}
	m.volume = &v
	return nil
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume, nil
}

func (m *Mock) GetLastfmSession() (*LastfmSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *Mock) SaveLastfmSession(username, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &LastfmSession{Username: username, SessionKey: sessionKey}
	return nil
}

func (m *Mock) ClearLastfmSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetSnapshot(s *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
}

func (m *Mock) SetVolume(v *VolumeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

func (m *Mock) SetVolumeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumeErr = err
}

// Saved returns the last snapshot written through either save path.
func (m *Mock) Saved() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

func (m *Mock) SavedVolume() *VolumeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) SyncSaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncSaves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
