package agent

import (
	"context"
	"log/slog"

	"github.com/chris/rednote/internal/db"
)

// Generator is the full generation workflow shared by every surface: build
// the task from history, run the agent, store the note.
type Generator struct {
	Agent        *Agent
	Store        *db.DB
	DefaultStyle string
}

// Generate produces and stores one note. A storage failure is logged and the
// result still returned since the note itself was produced.
func (g *Generator) Generate(ctx context.Context, product, style string) (*Result, error) {
	if style == "" {
		style = g.DefaultStyle
	}
	var history NoteHistory
	if g.Store != nil {
		history = g.Store
	}
	task := BuildTask(history, product, style)

	res, err := g.Agent.Run(ctx, task)
	if err != nil {
		return nil, err
	}
	if g.Store != nil {
		if _, err := g.Store.SaveNote(NoteFor(task, res)); err != nil {
			slog.Warn("saving note", "run_id", res.RunID, "err", err)
		}
	}
	return res, nil
}
