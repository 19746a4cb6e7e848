package agent

import "context"

// Agent is a unit of scheduled background work.
type Agent interface {
	// GetName returns the agent's unique name, used for logging and
	// on-demand runs.
	GetName() string

	// GetSchedule returns the cron schedule string (e.g. "0 6 * * *").
	// An empty string registers the agent as on-demand only.
	GetSchedule() string

	// Execute runs the agent's task.
	Execute(ctx context.Context) error
}
