package tasks

import (
	"context"
	"log/slog"
)

// Run executes one task to completion in the calling goroutine.
func Run(ctx context.Context, task TaskInterface) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	task.Start()
	slog.Debug("Task started", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceName())

	if err := task.Execute(ctx); err != nil {
		slog.Error("Task failed", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceName(), "duration", task.GetDuration(), "error", err)
		return err
	}

	return nil
}
