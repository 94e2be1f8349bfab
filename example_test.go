package daybook_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aretw0/daybook"
	"github.com/aretw0/daybook/pkg/core"
)

// Example_basic opens a daybook in a temporary directory and adds tasks.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "daybook-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	app, err := daybook.New(ctx, tmpDir,
		daybook.WithAutoInit(true),
		daybook.WithVersioning(false),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close(ctx)

	for _, d := range []daybook.TaskDraft{
		{Title: "Water plants", Priority: core.PriorityLow},
		{Title: "Call the bank", Priority: core.PriorityHigh},
		{Title: "Buy milk"},
	} {
		if _, err := app.AddTask(ctx, d); err != nil {
			log.Fatal(err)
		}
	}

	for _, t := range app.Tasks.List() {
		fmt.Printf("%s (%s)\n", t.Title, t.Priority)
	}
	// Output:
	// Call the bank (high)
	// Buy milk (medium)
	// Water plants (low)
}

// ExampleApp_NoteToTask turns a voice note into a prefilled task draft.
func ExampleApp_NoteToTask() {
	tmpDir, err := os.MkdirTemp("", "daybook-crosslink-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	app, err := daybook.New(ctx, tmpDir, daybook.WithAutoInit(true), daybook.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close(ctx)

	err = app.Notes.Append(ctx, daybook.VoiceNote{
		ID:        "note-1",
		Title:     "Dentist",
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local),
	})
	if err != nil {
		log.Fatal(err)
	}

	draft, _, err := app.NoteToTask(ctx, "note-1", false)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(draft.Title, draft.Priority)
	fmt.Println(draft.Details)
	// Output:
	// Dentist high
	// Linked voice note captured Mar 14, 2025 09:30. Listen in the Voice Notes section.
}
