package domain

const MaxDisplayNameLen = 36

// Member represents one participant's meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	Name  string
	State AdmissionState
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(name string) *Member {
	return &Member{Name: SanitizeDisplayName(name)}
}

// SanitizeDisplayName truncates oversized names. Empty names are allowed;
// the client simply joined without identifying itself.
func SanitizeDisplayName(name string) string {
	if len(name) > MaxDisplayNameLen {
		return name[:MaxDisplayNameLen]
	}
	return name
}
