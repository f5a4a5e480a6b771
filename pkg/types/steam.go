package types

// SteamStatus is the ordinal tier derived from a task's steam volume. It
// is recomputed on every read and never stored.
type SteamStatus int

// Steam tiers, lowest first.
const (
	SteamNone SteamStatus = iota
	SteamAlmostFull
	SteamHalfFull
	SteamFull
)

// Steam volume thresholds. A volume at or above a threshold reaches that
// tier.
const (
	SteamAlmostFullThreshold = 25
	SteamHalfFullThreshold   = 50
	SteamFullThreshold       = 100
)

// SteamStatusOf maps a steam volume onto its tier.
func SteamStatusOf(volume float64) SteamStatus {
	switch {
	case volume >= SteamFullThreshold:
		return SteamFull
	case volume >= SteamHalfFullThreshold:
		return SteamHalfFull
	case volume >= SteamAlmostFullThreshold:
		return SteamAlmostFull
	default:
		return SteamNone
	}
}

// String returns the tier name.
func (s SteamStatus) String() string {
	switch s {
	case SteamNone:
		return "NONE"
	case SteamAlmostFull:
		return "ALMOST_FULL"
	case SteamHalfFull:
		return "HALF_FULL"
	case SteamFull:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the tier by name.
func (s SteamStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
