package config

// Error reports malformed or missing settings, including an unresolved
// server name. Nothing is ever spawned after one of these.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "config: " + e.Reason
}
