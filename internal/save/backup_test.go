package save

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsd/internal/models"
	"gsd/internal/structures"
	"gsd/internal/testutil"
)

func newTestBackupManager(t *testing.T, dir string, maxBackups int) (BackupManagerInterface, Paths, *testutil.MockMetrics) {
	t.Helper()

	conf := &structures.Config{
		Storage: structures.StorageConfig{Dir: dir, MaxBackups: maxBackups},
	}
	metrics := testutil.NewMockMetrics()
	paths := NewPaths(conf)
	return NewBackupManager(paths, conf, &testutil.MockLogger{}, metrics), paths, metrics
}

func writePrimary(t *testing.T, paths Paths, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(paths.Primary(models.KindGameData), []byte(content), 0600))
}

func TestBackupManager_Create_RequiresPrimary(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, t.TempDir(), 3)

	_, err := bm.Create("")
	assert.ErrorIs(t, err, ErrIOFailure)
}

func TestBackupManager_Create_TimestampNameWhenEmpty(t *testing.T) {
	bm, paths, metrics := newTestBackupManager(t, t.TempDir(), 3)
	writePrimary(t, paths, "payload")

	name, err := bm.Create("")
	require.NoError(t, err)
	assert.Regexp(t, `^backup_\d{8}_\d{6}$`, name)
	assert.Equal(t, 1, metrics.Backups)

	data, err := os.ReadFile(paths.RotatedBackup(name))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestBackupManager_Create_ExplicitName(t *testing.T) {
	bm, paths, _ := newTestBackupManager(t, t.TempDir(), 3)
	writePrimary(t, paths, "payload")

	name, err := bm.Create("pre_import_20260828_120000")
	require.NoError(t, err)
	assert.Equal(t, "pre_import_20260828_120000", name)
}

func TestBackupManager_RetentionKeepsNewestRotated(t *testing.T) {
	bm, paths, _ := newTestBackupManager(t, t.TempDir(), 3)
	writePrimary(t, paths, "payload")

	names := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("backup_20260828_12000%d", i)
		_, err := bm.Create(name)
		require.NoError(t, err)
		names = append(names, name)
	}

	listed, err := bm.List()
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.ElementsMatch(t, names[2:], listed)

	for _, name := range names[:2] {
		_, err := os.Stat(paths.RotatedBackup(name))
		assert.True(t, os.IsNotExist(err), "oldest rotated backup %s must be removed", name)
	}
}

// Safety backups carry named prefixes instead of the rotated pattern and
// are never retention targets.
func TestBackupManager_RetentionSparesNamedBackups(t *testing.T) {
	bm, paths, _ := newTestBackupManager(t, t.TempDir(), 2)
	writePrimary(t, paths, "payload")

	_, err := bm.Create("pre_delete_20260828_110000")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := bm.Create(fmt.Sprintf("backup_20260828_12000%d", i))
		require.NoError(t, err)
	}

	listed, err := bm.List()
	require.NoError(t, err)
	assert.Contains(t, listed, "pre_delete_20260828_110000")
	assert.Len(t, listed, 3) // 2 rotated + 1 safety
}

func TestBackupManager_Restore(t *testing.T) {
	bm, paths, _ := newTestBackupManager(t, t.TempDir(), 3)
	writePrimary(t, paths, "generation-1")

	name, err := bm.Create("")
	require.NoError(t, err)

	writePrimary(t, paths, "generation-2")
	require.NoError(t, bm.Restore(name))

	data, err := os.ReadFile(paths.Primary(models.KindGameData))
	require.NoError(t, err)
	assert.Equal(t, "generation-1", string(data))
}

func TestBackupManager_Restore_UnknownName(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, t.TempDir(), 3)
	assert.ErrorIs(t, bm.Restore("backup_19990101_000000"), ErrIOFailure)
}

func TestBackupManager_List_EmptyDirectory(t *testing.T) {
	bm, _, _ := newTestBackupManager(t, t.TempDir(), 3)

	listed, err := bm.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
}
