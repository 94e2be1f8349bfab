// Package render projects the note and task stores onto a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
)

// Empty-state placeholders.
const (
	EmptyNotes = "No voice notes yet. Start recording to capture one!"
	EmptyTasks = "No tasks yet. Add your first to-do above!"
)

// ShortIDLen is how many id characters the text view shows.
const ShortIDLen = 8

// Renderer writes lists either as text or as JSON.
type Renderer struct {
	w    io.Writer
	json bool
}

// New returns a text renderer.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// NewJSON returns a renderer that emits indented JSON documents.
func NewJSON(w io.Writer) *Renderer {
	return &Renderer{w: w, json: true}
}

// NoteView is the JSON projection of a voice note. Audio is summarized, not inlined.
type NoteView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	MimeType    string    `json:"mimeType,omitempty"`
	AudioBytes  int       `json:"audioBytes"`
}

// Board is the JSON document for the combined view.
type Board struct {
	Notes []NoteView  `json:"notes"`
	Tasks []core.Task `json:"tasks"`
}

// Notes renders notes in the order given. Callers pass NoteStore.List.
func (r *Renderer) Notes(notes []core.VoiceNote) error {
	if r.json {
		return r.encode(noteViews(notes))
	}
	return r.textNotes(notes)
}

// Tasks renders tasks in the order given. Callers pass TaskStore.List.
func (r *Renderer) Tasks(tasks []core.Task) error {
	if r.json {
		if tasks == nil {
			tasks = []core.Task{}
		}
		return r.encode(tasks)
	}
	return r.textTasks(tasks)
}

// Board renders both sections.
func (r *Renderer) Board(notes []core.VoiceNote, tasks []core.Task) error {
	if r.json {
		if tasks == nil {
			tasks = []core.Task{}
		}
		return r.encode(Board{Notes: noteViews(notes), Tasks: tasks})
	}
	fmt.Fprintln(r.w, "Voice Notes")
	if err := r.textNotes(notes); err != nil {
		return err
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Tasks")
	return r.textTasks(tasks)
}

// Draft renders a prefilled task form.
func (r *Renderer) Draft(d core.TaskDraft) error {
	if r.json {
		return r.encode(d)
	}
	fmt.Fprintf(r.w, "Title:    %s\n", d.Title)
	fmt.Fprintf(r.w, "Priority: %s\n", d.Priority)
	fmt.Fprintln(r.w, "Details:")
	for _, line := range strings.Split(d.Details, "\n") {
		fmt.Fprintf(r.w, "  %s\n", line)
	}
	return nil
}

// Task renders a single task.
func (r *Renderer) Task(t core.Task) error {
	if r.json {
		return r.encode(t)
	}
	return r.textTasks([]core.Task{t})
}

// Note renders a single note.
func (r *Renderer) Note(n core.VoiceNote) error {
	if r.json {
		return r.encode(noteView(n))
	}
	return r.textNotes([]core.VoiceNote{n})
}

func (r *Renderer) textNotes(notes []core.VoiceNote) error {
	if len(notes) == 0 {
		_, err := fmt.Fprintf(r.w, "  %s\n", EmptyNotes)
		return err
	}
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	for _, n := range notes {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", ShortID(n.ID), n.Title, core.FormatTimestamp(n.CreatedAt), audioLabel(n.AudioData))
		if n.Description != "" {
			for _, line := range strings.Split(n.Description, "\n") {
				fmt.Fprintf(tw, "  \t  %s\t\t\n", line)
			}
		}
	}
	return tw.Flush()
}

func (r *Renderer) textTasks(tasks []core.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintf(r.w, "  %s\n", EmptyTasks)
		return err
	}
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", ShortID(t.ID), checkbox(t.Completed), chip(t.Priority), t.Title, core.FormatTimestamp(t.CreatedAt))
		if t.Details != "" {
			for _, line := range strings.Split(t.Details, "\n") {
				fmt.Fprintf(tw, "  \t\t\t  %s\t\n", line)
			}
		}
	}
	return tw.Flush()
}

func (r *Renderer) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ShortID truncates an id for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func chip(p core.Priority) string {
	if !p.Valid() {
		p = core.DefaultPriority
	}
	return "(" + strings.ToUpper(p.String()) + ")"
}

func audioLabel(dataURL string) string {
	mime, size, err := recording.DataURLSize(dataURL)
	if err != nil {
		return "no audio"
	}
	return fmt.Sprintf("%s %s", strings.TrimPrefix(mime, "audio/"), humanBytes(size))
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func noteViews(notes []core.VoiceNote) []NoteView {
	views := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, noteView(n))
	}
	return views
}

func noteView(n core.VoiceNote) NoteView {
	v := NoteView{ID: n.ID, Title: n.Title, Description: n.Description, CreatedAt: n.CreatedAt}
	if mime, size, err := recording.DataURLSize(n.AudioData); err == nil {
		v.MimeType = mime
		v.AudioBytes = size
	}
	return v
}
