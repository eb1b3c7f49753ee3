package domain

// SchedulerConfig holds the background scheduler's configuration.
type SchedulerConfig struct {
	// Enabled turns the whole scheduler on or off.
	Enabled bool

	// TaskConfigs holds per-task configuration keyed by task ID.
	TaskConfigs map[string]TaskConfig
}

// TaskConfig configures a single recurring task.
type TaskConfig struct {
	// Enabled lets one task be switched off without disabling the rest.
	Enabled bool

	// Spec is the task's cron expression (standard five-field syntax,
	// minute granularity).
	Spec string
}

// GetTaskConfig returns the configuration for a task, or a zero
// TaskConfig when the task is not configured.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	if c.TaskConfigs == nil {
		return TaskConfig{}
	}
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig enables an hourly refresh of every source.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDSourceRefresh: {
				Enabled: true,
				Spec:    "0 * * * *",
			},
		},
	}
}

// TaskIDSourceRefresh identifies the built-in task that re-ingests
// every configured source.
const TaskIDSourceRefresh = "source-refresh"
