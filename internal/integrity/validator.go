package integrity

import (
	"errors"
	"fmt"

	"gsd/internal/models"
	"gsd/internal/providers"
	"gsd/internal/structures"
)

var (
	ErrValidationFailure  = errors.New("validation failure")
	ErrVersionUnsupported = errors.New("unsupported schema version")
)

type ValidatorInterface interface {
	ValidateSaveRecord(r *models.SaveRecord) error
}

// Validator runs the field-range and checksum checks on loaded records.
type Validator struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewValidator(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ValidatorInterface {
	return &Validator{conf: conf, logger: logger, metrics: metrics}
}

// ValidateSaveRecord checks the record in a fixed order: presence, level
// bounds, playtime sign, unlock ordering, then checksum. A checksum
// mismatch is logged and counted but does not reject the record; the rest
// of the checks do.
func (v *Validator) ValidateSaveRecord(r *models.SaveRecord) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrValidationFailure)
	}

	maxLevels := v.conf.Save.MaxLevels
	if r.CurrentLevel < 1 || r.CurrentLevel > maxLevels {
		return fmt.Errorf("%w: current level %d out of range [1, %d]", ErrValidationFailure, r.CurrentLevel, maxLevels)
	}
	if r.HighestUnlockedLevel < 1 || r.HighestUnlockedLevel > maxLevels {
		return fmt.Errorf("%w: highest unlocked level %d out of range [1, %d]", ErrValidationFailure, r.HighestUnlockedLevel, maxLevels)
	}
	if r.TotalPlayTime < 0 {
		return fmt.Errorf("%w: negative playtime %.2f", ErrValidationFailure, r.TotalPlayTime)
	}
	if r.HighestUnlockedLevel < r.CurrentLevel {
		return fmt.Errorf("%w: highest unlocked level %d below current level %d", ErrValidationFailure, r.HighestUnlockedLevel, r.CurrentLevel)
	}

	// Soft check: legacy behavior accepts the record on mismatch. Kept
	// until there is a product decision on rejecting tampered saves.
	if r.Checksum != "" && r.Checksum != ComputeChecksum(r) {
		v.logger.Warnf(providers.TypeLoad, "Checksum mismatch for device %s, accepting record anyway", r.DeviceID)
		v.metrics.IncChecksumMismatches()
	}

	return nil
}
