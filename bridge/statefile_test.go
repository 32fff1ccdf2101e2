package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_StateFile_Creates_Default_On_First_Load(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "bridge_state.json")

	states := NewStateFile(path)
	state, err := states.Load()
	req.NoError(err)
	req.Nil(state.PinnedRosterMessageID)
	req.FileExists(path)
}

func Test_StateFile_Round_Trips_Pinned_Message(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "bridge_state.json")

	states := NewStateFile(path)
	_, err := states.Load()
	req.NoError(err)
	req.NoError(states.Save(PersistentState{PinnedRosterMessageID: lo.ToPtr(int64(42))}))

	// A fresh StateFile reads back from disk, not from the snapshot
	reopened := NewStateFile(path)
	state, err := reopened.Load()
	req.NoError(err)
	req.NotNil(state.PinnedRosterMessageID)
	req.Equal(int64(42), *state.PinnedRosterMessageID)
}

func Test_StateFile_Rejects_Corrupted_File(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "bridge_state.json")
	req.NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStateFile(path).Load()
	req.ErrorContains(err, "corrupted")
}
