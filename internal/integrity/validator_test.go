package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsd/internal/models"
	"gsd/internal/structures"
	"gsd/internal/testutil"
)

func validatorConfig() *structures.Config {
	return &structures.Config{
		Save: structures.SaveConfig{
			MaxLevels:           200,
			MinSupportedVersion: 1,
		},
	}
}

func newTestValidator() (ValidatorInterface, *testutil.MockLogger, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewValidator(validatorConfig(), logger, metrics), logger, metrics
}

func validRecord() *models.SaveRecord {
	r := models.NewSaveRecord()
	r.CurrentLevel = 5
	r.HighestUnlockedLevel = 10
	r.TotalPlayTime = 120.5
	StampChecksum(r)
	return r
}

func TestValidator_AcceptsValidRecord(t *testing.T) {
	v, _, metrics := newTestValidator()

	require.NoError(t, v.ValidateSaveRecord(validRecord()))
	assert.Zero(t, metrics.ChecksumMismatches)
}

func TestValidator_RejectsNilRecord(t *testing.T) {
	v, _, _ := newTestValidator()
	assert.ErrorIs(t, v.ValidateSaveRecord(nil), ErrValidationFailure)
}

func TestValidator_RejectsLevelOutOfRange(t *testing.T) {
	v, _, _ := newTestValidator()

	r := validRecord()
	r.CurrentLevel = 0
	assert.ErrorIs(t, v.ValidateSaveRecord(r), ErrValidationFailure)

	r = validRecord()
	r.CurrentLevel = 201
	r.HighestUnlockedLevel = 201
	assert.ErrorIs(t, v.ValidateSaveRecord(r), ErrValidationFailure)
}

func TestValidator_RejectsNegativePlaytime(t *testing.T) {
	v, _, _ := newTestValidator()

	r := validRecord()
	r.TotalPlayTime = -1
	assert.ErrorIs(t, v.ValidateSaveRecord(r), ErrValidationFailure)
}

func TestValidator_RejectsUnlockBelowCurrent(t *testing.T) {
	v, _, _ := newTestValidator()

	r := validRecord()
	r.HighestUnlockedLevel = r.CurrentLevel - 1
	assert.ErrorIs(t, v.ValidateSaveRecord(r), ErrValidationFailure)
}

// A checksum mismatch is observed but tolerated: the record still loads.
func TestValidator_ChecksumMismatchIsSoft(t *testing.T) {
	v, logger, metrics := newTestValidator()

	r := validRecord()
	r.TotalPlayTime += 1000 // tampered after stamping

	require.NoError(t, v.ValidateSaveRecord(r))
	assert.Equal(t, 1, metrics.ChecksumMismatches)
	assert.True(t, logger.HasLevel("warn"))
}

func TestValidator_EmptyChecksumSkipsCheck(t *testing.T) {
	v, _, metrics := newTestValidator()

	r := validRecord()
	r.Checksum = ""

	require.NoError(t, v.ValidateSaveRecord(r))
	assert.Zero(t, metrics.ChecksumMismatches)
}
