package models

// RecordKind identifies one of the logical records the engine persists.
// The set is closed: every cache slot, file path and queue lane is keyed
// by one of these values.
type RecordKind int

const (
	KindGameData RecordKind = iota
	KindSettings
	KindStatistics
)

func (k RecordKind) String() string {
	switch k {
	case KindGameData:
		return "GameData"
	case KindSettings:
		return "Settings"
	case KindStatistics:
		return "Statistics"
	default:
		return "Unknown"
	}
}

// Kinds returns all record kinds in a stable order.
func Kinds() []RecordKind {
	return []RecordKind{KindGameData, KindSettings, KindStatistics}
}
