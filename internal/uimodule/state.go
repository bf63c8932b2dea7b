package uimodule

// State tells whether a UI reload may currently happen.
type State int

const (
	ReloadAllowed State = iota
	ReloadBlocked
)

func (s State) String() string {
	switch s {
	case ReloadAllowed:
		return "ReloadAllowed"
	case ReloadBlocked:
		return "ReloadBlocked"
	}
	return "Unknown"
}
