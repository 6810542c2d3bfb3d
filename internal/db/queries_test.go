package db

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// --- Products ---

func TestSeedDefaultProducts(t *testing.T) {
	d := openTestDB(t)

	n, err := d.SeedDefaultProducts()
	if err != nil {
		t.Fatalf("SeedDefaultProducts: %v", err)
	}
	if n != len(DefaultProducts) {
		t.Errorf("expected %d seeded, got %d", len(DefaultProducts), n)
	}

	// Second call is a no-op.
	n, err = d.SeedDefaultProducts()
	if err != nil {
		t.Fatalf("SeedDefaultProducts again: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 on reseed, got %d", n)
	}

	products, err := d.ListProducts()
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != len(DefaultProducts) {
		t.Errorf("expected %d products, got %d", len(DefaultProducts), len(products))
	}
}

func TestFindProductBySubstring(t *testing.T) {
	d := openTestDB(t)
	d.SeedDefaultProducts()

	p, err := d.FindProduct("请帮我查一下深海蓝藻保湿面膜的卖点")
	if err != nil {
		t.Fatalf("FindProduct: %v", err)
	}
	if p == nil || p.Name != "深海蓝藻保湿面膜" {
		t.Fatalf("expected 深海蓝藻保湿面膜, got %+v", p)
	}
}

func TestFindProductPrefersLongestName(t *testing.T) {
	d := openTestDB(t)
	d.CreateProduct("面膜", "generic")
	d.CreateProduct("保湿面膜", "specific")

	p, err := d.FindProduct("深海保湿面膜")
	if err != nil {
		t.Fatalf("FindProduct: %v", err)
	}
	if p == nil || p.Details != "specific" {
		t.Errorf("expected the longer match, got %+v", p)
	}
}

func TestFindProductMissing(t *testing.T) {
	d := openTestDB(t)
	d.SeedDefaultProducts()

	p, err := d.FindProduct("不存在的产品")
	if err != nil {
		t.Fatalf("FindProduct: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil, got %+v", p)
	}
}

func TestCreateProductDuplicateName(t *testing.T) {
	d := openTestDB(t)
	if _, err := d.CreateProduct("美白精华", "a"); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := d.CreateProduct("美白精华", "b"); err == nil {
		t.Error("expected error for duplicate product name")
	}
}

func TestUpdateProduct(t *testing.T) {
	d := openTestDB(t)
	id, _ := d.CreateProduct("美白精华", "old")

	if err := d.UpdateProduct(id, map[string]any{"details": "new"}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	p, _ := d.FindProduct("美白精华")
	if p == nil || p.Details != "new" {
		t.Errorf("expected updated details, got %+v", p)
	}
}

func TestUpdateProductRejectsBogusColumn(t *testing.T) {
	d := openTestDB(t)
	id, _ := d.CreateProduct("美白精华", "x")
	if err := d.UpdateProduct(id, map[string]any{"bogus": 1}); err == nil {
		t.Error("expected error for disallowed column")
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	d := openTestDB(t)
	if err := d.UpdateProduct(999, map[string]any{"details": "x"}); err == nil {
		t.Error("expected error for missing product")
	}
}

// --- Notes ---

func TestSaveAndListNotes(t *testing.T) {
	d := openTestDB(t)

	id, err := d.SaveNote(Note{
		RunID:    "run-1",
		Product:  "美白精华",
		Style:    "知性温柔",
		Title:    "28天逆袭冷白皮",
		Body:     "姐妹们！\n真的好用",
		Hashtags: []string{"#美白精华", "#提亮肤色"},
		Emojis:   []string{"✨"},
		Rounds:   3,
	})
	if err != nil {
		t.Fatalf("SaveNote: %v", err)
	}

	notes, err := d.ListNotes("美白精华", 5)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	n := notes[0]
	if n.ID != id || n.RunID != "run-1" || n.Rounds != 3 {
		t.Errorf("unexpected note: %+v", n)
	}
	if n.Body != "姐妹们！\n真的好用" {
		t.Errorf("expected body line breaks preserved, got %q", n.Body)
	}
	if len(n.Hashtags) != 2 || n.Hashtags[1] != "#提亮肤色" {
		t.Errorf("unexpected hashtags %v", n.Hashtags)
	}
	if len(n.Emojis) != 1 || n.Emojis[0] != "✨" {
		t.Errorf("unexpected emojis %v", n.Emojis)
	}
}

func TestSaveNoteNilSequences(t *testing.T) {
	d := openTestDB(t)
	if _, err := d.SaveNote(Note{RunID: "r", Product: "p", Style: "s", Title: "t"}); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	notes, _ := d.ListNotes("", 0)
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Hashtags == nil || len(notes[0].Hashtags) != 0 {
		t.Errorf("expected empty (non-nil) hashtags, got %#v", notes[0].Hashtags)
	}
}

func TestListNotesCorruptColumnIsLogged(t *testing.T) {
	d := openTestDB(t)
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	if _, err := d.conn.Exec(
		"INSERT INTO notes (run_id, product, style, title, body, hashtags, emojis) VALUES ('r', 'p', 's', 't', 'b', 'not json', '[\"✨\"]')",
	); err != nil {
		t.Fatalf("insert: %v", err)
	}
	notes, err := d.ListNotes("p", 10)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Hashtags == nil || len(notes[0].Hashtags) != 0 {
		t.Errorf("expected empty hashtags for a corrupt column, got %#v", notes[0].Hashtags)
	}
	if len(notes[0].Emojis) != 1 || notes[0].Emojis[0] != "✨" {
		t.Errorf("unexpected emojis %v", notes[0].Emojis)
	}
	if !strings.Contains(logs.String(), "corrupt note column") || !strings.Contains(logs.String(), "column=hashtags") {
		t.Errorf("expected a warning for the corrupt column, got %q", logs.String())
	}
}

func TestListNotesFilterAndOrder(t *testing.T) {
	d := openTestDB(t)
	d.SaveNote(Note{RunID: "1", Product: "a", Style: "s", Title: "first"})
	d.SaveNote(Note{RunID: "2", Product: "b", Style: "s", Title: "other"})
	d.SaveNote(Note{RunID: "3", Product: "a", Style: "s", Title: "second"})

	notes, err := d.ListNotes("a", 10)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes for a, got %d", len(notes))
	}
	if notes[0].Title != "second" {
		t.Errorf("expected newest first, got %q", notes[0].Title)
	}

	all, _ := d.ListNotes("", 10)
	if len(all) != 3 {
		t.Errorf("expected 3 notes total, got %d", len(all))
	}
}

func TestRecentTitles(t *testing.T) {
	d := openTestDB(t)
	d.SaveNote(Note{RunID: "1", Product: "a", Style: "s", Title: "t1"})
	d.SaveNote(Note{RunID: "2", Product: "a", Style: "s", Title: ""})
	d.SaveNote(Note{RunID: "3", Product: "a", Style: "s", Title: "t3"})

	titles, err := d.RecentTitles("a", 5)
	if err != nil {
		t.Fatalf("RecentTitles: %v", err)
	}
	if len(titles) != 2 || titles[0] != "t3" || titles[1] != "t1" {
		t.Errorf("unexpected titles %v", titles)
	}
}

// --- Schedules ---

func TestCreateAndListSchedules(t *testing.T) {
	d := openTestDB(t)
	id, err := d.CreateSchedule("morning", "0 9 * * *", "美白精华", "知性温柔")
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	d.CreateSchedule("evening", "0 21 * * *", "面膜", "搞怪")
	d.UpdateSchedule(id, map[string]any{"enabled": 0})

	all, err := d.ListSchedules(false)
	if err != nil {
		t.Fatalf("ListSchedules: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(all))
	}
	if all[0].Product != "美白精华" || all[0].Style != "知性温柔" || all[0].Enabled {
		t.Errorf("unexpected first schedule: %+v", all[0])
	}

	enabled, _ := d.ListSchedules(true)
	if len(enabled) != 1 || enabled[0].Name != "evening" {
		t.Errorf("expected only evening enabled, got %+v", enabled)
	}
}

func TestUpdateScheduleRejectsBogusColumn(t *testing.T) {
	d := openTestDB(t)
	id, _ := d.CreateSchedule("x", "* * * * *", "p", "s")
	if err := d.UpdateSchedule(id, map[string]any{"name": "y"}); err == nil {
		t.Error("expected error for disallowed column")
	}
}

func TestRecordScheduleRunAndDelete(t *testing.T) {
	d := openTestDB(t)
	id, _ := d.CreateSchedule("x", "* * * * *", "p", "s")
	if err := d.RecordScheduleRun(id); err != nil {
		t.Fatalf("RecordScheduleRun: %v", err)
	}
	all, _ := d.ListSchedules(false)
	if len(all) != 1 || all[0].LastRun == "" {
		t.Errorf("expected last_run set, got %+v", all)
	}
	if err := d.DeleteSchedule("x"); err != nil {
		t.Fatalf("DeleteSchedule: %v", err)
	}
	all, _ = d.ListSchedules(false)
	if len(all) != 0 {
		t.Errorf("expected schedule deleted, got %d", len(all))
	}
}

// --- Settings ---

func TestGetSetSetting(t *testing.T) {
	d := openTestDB(t)

	v, err := d.GetSetting("discord_user_id")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty for missing key, got %q", v)
	}

	d.SetSetting("discord_user_id", "123")
	d.SetSetting("discord_user_id", "456")
	v, _ = d.GetSetting("discord_user_id")
	if v != "456" {
		t.Errorf("expected overwritten value 456, got %q", v)
	}
}
