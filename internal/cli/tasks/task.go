package tasks

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a new task."`
	List   TaskListCmd   `cmd:"" help:"List tasks." default:"1"`
	Edit   TaskEditCmd   `cmd:"" help:"Edit an existing task."`
	Done   TaskDoneCmd   `cmd:"" help:"Toggle a task between done and pending."`
	Snooze TaskSnoozeCmd `cmd:"" help:"Push a task's due time back."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
}
