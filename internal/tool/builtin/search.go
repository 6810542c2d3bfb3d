package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/rednote/internal/tool"
)

const searchWebDescription = "搜索互联网上的实时信息，用于获取最新新闻、流行趋势、用户评价、行业报告等。请确保搜索关键词精确，避免宽泛的查询。"

var searchWebSchema = tool.Object(map[string]any{
	"query": tool.Prop("string", "要搜索的关键词或问题，例如'最新小红书美妆趋势'或'深海蓝藻保湿面膜 用户评价'"),
}, "query")

// searchRules are checked in order; the first keyword found in the query wins,
// so more specific keywords come first.
var searchRules = []struct {
	keyword string
	result  string
}{
	{"小红书美妆趋势", "近期小红书美妆流行'多巴胺穿搭'、'早C晚A'护肤理念、'伪素颜'妆容，热门关键词有#氛围感、#抗老、#屏障修复。"},
	{"深海蓝藻保湿面膜", "关于深海蓝藻保湿面膜的用户评价：普遍反馈补水效果好，吸收快，对敏感肌友好。有用户提到价格略高，但效果值得。"},
	{"保湿面膜", "小红书保湿面膜热门话题：沙漠干皮救星、熬夜急救面膜、水光肌养成。用户痛点：卡粉、泛红、紧绷感。"},
}

// webSearch answers from a fixed snippet table instead of a live search backend.
type webSearch struct {
	delay time.Duration
}

func (s *webSearch) handle(ctx context.Context, args map[string]any) (tool.Result, error) {
	query, err := tool.RequireString(args, "query")
	if err != nil {
		return tool.Result{}, err
	}
	slog.Debug("search_web", "query", query)
	if err := pause(ctx, s.delay); err != nil {
		return tool.Result{}, err
	}
	for _, r := range searchRules {
		if strings.Contains(query, r.keyword) {
			return tool.Text(r.result), nil
		}
	}
	return tool.Text(fmt.Sprintf("未找到关于 '%s' 的特定信息，但市场反馈通常关注产品成分、功效和用户体验。", query)), nil
}
