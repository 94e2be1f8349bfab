// Package daybook is the composition root for daybook, a terminal voice-memo
// recorder with a daily task list.
//
// It wires the domain stores (pkg/core) to the filesystem adapter
// (pkg/adapters/fs) and the microphone capture backend (pkg/recording).
//
// Features:
//
//   - Voice notes recorded through ffmpeg, stored inline as base64 data URLs.
//   - A task list ordered by completion, priority and age.
//   - Notes convert into prefilled high-priority tasks.
//   - Collections are plain JSON or YAML files, optionally versioned with git.
//   - Changes made by other processes can be watched and reloaded.
//
// Usage:
//
//	app, err := daybook.New(ctx, "./journal",
//		daybook.WithAutoInit(true),
//		daybook.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer app.Close(ctx)
//
//	task, err := app.AddTask(ctx, daybook.TaskDraft{Title: "Call the bank"})
package daybook
