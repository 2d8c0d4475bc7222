package models

// SettingsRecord holds user preferences. It is stored as plain JSON so it
// stays inspectable and editable outside the engine.
type SettingsRecord struct {
	MusicVolume          float64 `json:"music_volume"`
	SfxVolume            float64 `json:"sfx_volume"`
	Muted                bool    `json:"muted"`
	Language             string  `json:"language"`
	ColorBlindMode       bool    `json:"color_blind_mode"`
	ReducedMotion        bool    `json:"reduced_motion"`
	HapticsEnabled       bool    `json:"haptics_enabled"`
	FontScale            float64 `json:"font_scale"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

func NewSettingsRecord() *SettingsRecord {
	return &SettingsRecord{
		MusicVolume:          0.8,
		SfxVolume:            1.0,
		Language:             "en",
		HapticsEnabled:       true,
		FontScale:            1.0,
		NotificationsEnabled: true,
	}
}
