package combat

import "time"

// LogEntry records the outcome of a single resolved action. Entries are
// append-only and never mutated after creation.
type LogEntry struct {
	ID        string
	Round     int
	ActorID   string
	Action    string
	TargetID  string
	Result    string
	Damage    int
	Effects   []string
	CreatedAt time.Time
}
