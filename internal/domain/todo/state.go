package todo

// State represents the completion state of a Todo.
type State string

const (
	StateIncomplete State = "INCOMPLETE"
	StateComplete   State = "COMPLETE"
)

// IsValid returns true if the state is one of the defined constants.
// Matching is case-sensitive.
func (s State) IsValid() bool {
	switch s {
	case StateIncomplete, StateComplete:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}
