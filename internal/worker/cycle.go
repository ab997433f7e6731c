package worker

import "time"

// CycleSummary captures what one polling cycle did. It is exposed over the
// status endpoint and the bot's /status command.
type CycleSummary struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	Subscriptions int
	SlotsSeen     int
	Matched       int
	Notified      int
	Duplicates    int
	Errors        int
	Pruned        int64
}

func (s CycleSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
