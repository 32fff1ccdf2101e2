package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// PersistentState is the single small record the bridge keeps across
// restarts: the id of the pinned roster message it edits in place.
type PersistentState struct {
	PinnedRosterMessageID *int64 `json:"pinned_roster_message_id"`
}

// StateFile stores PersistentState as JSON on disk. Reads are served from a
// snapshot after the first load; every save rewrites the file.
type StateFile struct {
	mu       sync.Mutex
	path     string
	snapshot *PersistentState
}

func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Load returns the stored state, creating a default file on first use.
func (s *StateFile) Load() (PersistentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil {
		return *s.snapshot, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		initial := PersistentState{}
		if err := s.write(initial); err != nil {
			return PersistentState{}, err
		}
		return initial, nil
	}
	if err != nil {
		return PersistentState{}, fmt.Errorf("reading state file %s: %w", s.path, err)
	}

	var state PersistentState
	if err := json.Unmarshal(data, &state); err != nil {
		return PersistentState{}, fmt.Errorf("state file %s is corrupted: %w", s.path, err)
	}
	s.snapshot = &state
	return state, nil
}

// Save persists the state and refreshes the snapshot.
func (s *StateFile) Save(state PersistentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(state)
}

func (s *StateFile) write(state PersistentState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file %s: %w", s.path, err)
	}
	s.snapshot = &state
	return nil
}
