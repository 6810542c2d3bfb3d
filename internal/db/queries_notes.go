package db

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// SaveNote stores a generated note and returns its ID.
func (d *DB) SaveNote(n Note) (int64, error) {
	hashtags, _ := json.Marshal(nonNil(n.Hashtags)) // []string marshal cannot fail
	emojis, _ := json.Marshal(nonNil(n.Emojis))
	res, err := d.conn.Exec(
		"INSERT INTO notes (run_id, product, style, title, body, hashtags, emojis, rounds) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		n.RunID, n.Product, n.Style, n.Title, n.Body, string(hashtags), string(emojis), n.Rounds,
	)
	if err != nil {
		return 0, fmt.Errorf("saving note: %w", err)
	}
	return res.LastInsertId()
}

// ListNotes returns the most recent notes, optionally for one product.
func (d *DB) ListNotes(product string, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = 10
	}
	q := "SELECT id, run_id, product, style, title, body, hashtags, emojis, rounds, created_at FROM notes"
	var args []any
	if product != "" {
		q += " WHERE product = ?"
		args = append(args, product)
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		var hashtags, emojis string
		if err := rows.Scan(&n.ID, &n.RunID, &n.Product, &n.Style, &n.Title, &n.Body, &hashtags, &emojis, &n.Rounds, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.Hashtags = decodeList(n.ID, "hashtags", hashtags)
		n.Emojis = decodeList(n.ID, "emojis", emojis)
		out = append(out, n)
	}
	return out, rows.Err()
}

// RecentTitles returns up to limit titles of the latest notes for product.
func (d *DB) RecentTitles(product string, limit int) ([]string, error) {
	notes, err := d.ListNotes(product, limit)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(notes))
	for _, n := range notes {
		if n.Title != "" {
			titles = append(titles, n.Title)
		}
	}
	return titles, nil
}

// decodeList reads a JSON string array column. A corrupt value is logged and
// read as empty so one bad row does not hide the rest of the history.
func decodeList(id int64, column, raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		slog.Warn("corrupt note column", "note_id", id, "column", column, "err", err)
		return []string{}
	}
	return nonNil(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
