package integrity

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"gsd/internal/models"
)

// checksumSalt matches the legacy save format. Changing it invalidates the
// checksum of every existing save file.
const checksumSalt = "PuzzleVault_ChecksumSalt_2021"

// ComputeChecksum derives the tamper-detection checksum of a save record.
// Only the fields that existed in the first save format participate so
// records written before newer fields were added still verify.
func ComputeChecksum(r *models.SaveRecord) string {
	payload := fmt.Sprintf("%d|%d|%.2f|%d|%s%s",
		r.CurrentLevel,
		r.HighestUnlockedLevel,
		r.TotalPlayTime,
		r.TotalCompletions,
		r.DeviceID,
		checksumSalt,
	)
	sum := sha256.Sum256([]byte(payload))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// StampChecksum recomputes and stores the checksum on the record.
func StampChecksum(r *models.SaveRecord) {
	r.Checksum = ComputeChecksum(r)
}
