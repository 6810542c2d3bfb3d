package agent

import (
	"log/slog"

	"github.com/chris/rednote/internal/db"
)

const recentTitleLimit = 5

// NoteHistory is the slice of the store BuildTask needs.
type NoteHistory interface {
	RecentTitles(product string, limit int) ([]string, error)
}

// BuildTask prepares a task for product, filling the avoid-list from titles
// already generated for it. A history failure is logged and the task goes
// ahead without one.
func BuildTask(history NoteHistory, product, style string) Task {
	task := Task{Product: product, Style: style}
	if history == nil {
		return task
	}
	titles, err := history.RecentTitles(product, recentTitleLimit)
	if err != nil {
		slog.Warn("loading recent titles", "product", product, "err", err)
		return task
	}
	task.Avoid = titles
	return task
}

// NoteFor converts a finished run into its stored form.
func NoteFor(task Task, res *Result) db.Note {
	return db.Note{
		RunID:    res.RunID,
		Product:  task.Product,
		Style:    task.Style,
		Title:    res.Artifact.Title,
		Body:     res.Artifact.Body,
		Hashtags: res.Artifact.Hashtags,
		Emojis:   res.Artifact.Emojis,
		Rounds:   res.Rounds,
	}
}
