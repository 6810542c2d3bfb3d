package agent

import (
	"errors"
	"testing"

	"github.com/chris/rednote/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHistory struct{}

func (failingHistory) RecentTitles(string, int) ([]string, error) {
	return nil, errors.New("locked")
}

func TestBuildTaskUsesRecentTitles(t *testing.T) {
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	_, err = d.SaveNote(db.Note{RunID: "r1", Product: "面膜", Style: "s", Title: "旧标题"})
	require.NoError(t, err)
	_, err = d.SaveNote(db.Note{RunID: "r2", Product: "精华", Style: "s", Title: "别的产品"})
	require.NoError(t, err)

	task := BuildTask(d, "面膜", "活泼甜美")
	assert.Equal(t, "面膜", task.Product)
	assert.Equal(t, "活泼甜美", task.Style)
	assert.Equal(t, []string{"旧标题"}, task.Avoid)
}

func TestBuildTaskHistoryFailure(t *testing.T) {
	task := BuildTask(failingHistory{}, "面膜", "s")
	assert.Empty(t, task.Avoid)

	task = BuildTask(nil, "面膜", "s")
	assert.Equal(t, "面膜", task.Product)
}

func TestNoteFor(t *testing.T) {
	task := Task{Product: "面膜", Style: "s"}
	res := &Result{RunID: "r", Rounds: 3, Artifact: Artifact{Title: "t", Body: "b", Hashtags: []string{"#a"}, Emojis: []string{"✨"}}}
	n := NoteFor(task, res)
	assert.Equal(t, db.Note{RunID: "r", Product: "面膜", Style: "s", Title: "t", Body: "b", Hashtags: []string{"#a"}, Emojis: []string{"✨"}, Rounds: 3}, n)
}
