package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/rednote/internal/tool"
)

const generateEmojiDescription = "根据提供的文本内容，生成一组适合小红书风格的表情符号。"

var generateEmojiSchema = tool.Object(map[string]any{
	"context": tool.Prop("string", "文案的关键内容或情感，例如'惊喜效果'、'补水保湿'"),
}, "context")

var emojiGroups = []struct {
	keywords []string
	emojis   []string
}{
	{[]string{"补水", "水润", "保湿"}, []string{"💦", "💧", "🌊", "✨"}},
	{[]string{"惊喜", "哇塞", "爱了"}, []string{"💖", "😍", "🤩", "💯"}},
	{[]string{"熬夜", "疲惫"}, []string{"😭", "😮‍💨", "😴", "💡"}},
	{[]string{"好物", "推荐"}, []string{"✅", "👍", "⭐", "🛍️"}},
}

var emojiPool = []string{"✨", "🔥", "💖", "💯", "🎉", "👍", "🤩", "💧", "🌿"}

const maxFallbackEmojis = 5

type emojiPicker struct {
	rng   *lockedRand
	delay time.Duration
}

func (e *emojiPicker) handle(ctx context.Context, args map[string]any) (tool.Result, error) {
	// An empty context is allowed and yields an empty sample.
	text, ok := tool.StringArg(args, "context")
	if !ok {
		return tool.Result{}, fmt.Errorf("%w: \"context\" must be a string", tool.ErrInvalidArguments)
	}
	slog.Debug("generate_emoji", "context", text)
	if err := pause(ctx, e.delay); err != nil {
		return tool.Result{}, err
	}
	for _, g := range emojiGroups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				return tool.List(g.emojis...), nil
			}
		}
	}
	return tool.List(e.sample(len(strings.Fields(text)))...), nil
}

// sample draws min(n, maxFallbackEmojis) distinct emojis from the pool.
func (e *emojiPicker) sample(n int) []string {
	k := min(n, maxFallbackEmojis, len(emojiPool))
	perm := e.rng.perm(len(emojiPool))
	out := make([]string, 0, k)
	for _, i := range perm[:k] {
		out = append(out, emojiPool[i])
	}
	return out
}
