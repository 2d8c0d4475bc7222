package models

import "time"

// ExportPackage bundles all three records for portable transfer.
type ExportPackage struct {
	ExportDate string            `json:"export_date"`
	AppVersion string            `json:"app_version"`
	Save       *SaveRecord       `json:"save"`
	Settings   *SettingsRecord   `json:"settings"`
	Statistics *StatisticsRecord `json:"statistics"`
}

// CloudRecord is the bundle exchanged with a remote snapshot store.
// Only the timestamp participates in merge decisions.
type CloudRecord struct {
	Save       *SaveRecord       `json:"save"`
	Settings   *SettingsRecord   `json:"settings"`
	Statistics *StatisticsRecord `json:"statistics"`
	DeviceID   string            `json:"device_id"`
	Platform   string            `json:"platform"`
	Timestamp  string            `json:"timestamp"`
}

// ParsedTimestamp parses the upload timestamp, zero time on failure.
func (c *CloudRecord) ParsedTimestamp() time.Time {
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
