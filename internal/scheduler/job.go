package scheduler

// Job represents a scheduled job
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run() error

	// Schedule returns the cron schedule expression
	// Examples: "0 2 * * *" (every day at 2 AM), "@daily"
	Schedule() string
}
