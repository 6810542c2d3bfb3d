package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/chris/rednote/internal/db"
	"github.com/chris/rednote/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	products map[string]string
	err      error
}

func (f fakeLookup) FindProduct(query string) (*db.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.products[query]; ok {
		return &db.Product{Name: query, Details: d}, nil
	}
	return nil, nil
}

func newRegistry(t *testing.T, lookup ProductLookup) *tool.Registry {
	t.Helper()
	r := tool.NewRegistry()
	require.NoError(t, Register(r, Options{
		Products: lookup,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}))
	return r
}

func TestRegisterDeclaresAllTools(t *testing.T) {
	r := newRegistry(t, fakeLookup{})
	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, SearchWebName, defs[0].Name)
	assert.Equal(t, QueryProductName, defs[1].Name)
	assert.Equal(t, GenerateEmojiName, defs[2].Name)
	for _, d := range defs {
		assert.NotEmpty(t, d.Description)
		assert.Len(t, d.Parameters["required"], 1, d.Name)
	}
}

func TestSearchWeb(t *testing.T) {
	r := newRegistry(t, fakeLookup{})
	ctx := context.Background()

	tests := []struct {
		query string
		want  string
	}{
		{"最新小红书美妆趋势", "多巴胺穿搭"},
		{"深海蓝藻保湿面膜 用户评价", "对敏感肌友好"},
		{"保湿面膜 热门话题", "沙漠干皮救星"},
		{"量子计算", "未找到关于 '量子计算' 的特定信息"},
	}
	for _, tt := range tests {
		res, err := r.Dispatch(ctx, SearchWebName, map[string]any{"query": tt.query})
		require.NoError(t, err, tt.query)
		assert.Contains(t, res.String(), tt.want, tt.query)
	}
}

func TestSearchWebMissingQuery(t *testing.T) {
	r := newRegistry(t, fakeLookup{})
	_, err := r.Dispatch(context.Background(), SearchWebName, map[string]any{})
	assert.ErrorIs(t, err, tool.ErrInvalidArguments)
}

func TestQueryProduct(t *testing.T) {
	r := newRegistry(t, fakeLookup{products: map[string]string{"美白精华": "烟酰胺"}})
	ctx := context.Background()

	res, err := r.Dispatch(ctx, QueryProductName, map[string]any{"product_name": "美白精华"})
	require.NoError(t, err)
	assert.Equal(t, "烟酰胺", res.String())

	res, err = r.Dispatch(ctx, QueryProductName, map[string]any{"product_name": "口红"})
	require.NoError(t, err)
	assert.Equal(t, "产品数据库中未找到关于 '口红' 的详细信息。", res.String())
}

func TestQueryProductBackendError(t *testing.T) {
	r := newRegistry(t, fakeLookup{err: errors.New("disk gone")})
	_, err := r.Dispatch(context.Background(), QueryProductName, map[string]any{"product_name": "x"})
	var te *tool.ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tool.CodeExecutionError, te.Code)
}

func TestQueryProductAgainstSQLite(t *testing.T) {
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	_, err = d.SeedDefaultProducts()
	require.NoError(t, err)

	r := newRegistry(t, d)
	res, err := r.Dispatch(context.Background(), QueryProductName, map[string]any{"product_name": "深海蓝藻保湿面膜"})
	require.NoError(t, err)
	assert.Contains(t, res.String(), "25ml*5片")
}

func TestGenerateEmojiKeywordGroups(t *testing.T) {
	r := newRegistry(t, fakeLookup{})
	ctx := context.Background()

	tests := map[string][]string{
		"补水保湿": {"💦", "💧", "🌊", "✨"},
		"惊喜效果": {"💖", "😍", "🤩", "💯"},
		"熬夜急救": {"😭", "😮‍💨", "😴", "💡"},
		"年度好物": {"✅", "👍", "⭐", "🛍️"},
	}
	for input, want := range tests {
		res, err := r.Dispatch(ctx, GenerateEmojiName, map[string]any{"context": input})
		require.NoError(t, err, input)
		assert.True(t, res.IsList())
		assert.Equal(t, want, res.Items(), input)
	}
}

func TestGenerateEmojiFallbackSample(t *testing.T) {
	r := newRegistry(t, fakeLookup{})
	ctx := context.Background()

	res, err := r.Dispatch(ctx, GenerateEmojiName, map[string]any{"context": "a b c d e f g"})
	require.NoError(t, err)
	items := res.Items()
	assert.Len(t, items, 5, "capped at five")
	seen := map[string]bool{}
	for _, e := range items {
		assert.Contains(t, emojiPool, e)
		assert.False(t, seen[e], "sample must not repeat")
		seen[e] = true
	}

	res, err = r.Dispatch(ctx, GenerateEmojiName, map[string]any{"context": "two words"})
	require.NoError(t, err)
	assert.Len(t, res.Items(), 2)

	var decoded []string
	require.NoError(t, json.Unmarshal([]byte(res.String()), &decoded), "list observations are JSON arrays")
}

func TestGenerateEmojiEmptyContext(t *testing.T) {
	r := newRegistry(t, fakeLookup{})
	res, err := r.Dispatch(context.Background(), GenerateEmojiName, map[string]any{"context": ""})
	require.NoError(t, err)
	assert.Equal(t, "[]", res.String())

	_, err = r.Dispatch(context.Background(), GenerateEmojiName, map[string]any{"context": 7})
	assert.ErrorIs(t, err, tool.ErrInvalidArguments)

	_, err = r.Dispatch(context.Background(), GenerateEmojiName, map[string]any{})
	var te *tool.ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tool.CodeArgumentError, te.Code)
	assert.Contains(t, te.Message, `"context" must be a string`)
}

func TestLatencyHonorsCancellation(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, Register(r, Options{Products: fakeLookup{}, SimulateLatency: true}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := r.Dispatch(ctx, SearchWebName, map[string]any{"query": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
