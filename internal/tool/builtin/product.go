package builtin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/rednote/internal/tool"
)

const queryProductDescription = "查询内部产品数据库，获取指定产品的详细卖点、成分、适用人群、使用方法等信息。"

var queryProductSchema = tool.Object(map[string]any{
	"product_name": tool.Prop("string", "要查询的产品名称，例如'深海蓝藻保湿面膜'"),
}, "product_name")

type productQuery struct {
	lookup ProductLookup
	delay  time.Duration
}

func (p *productQuery) handle(ctx context.Context, args map[string]any) (tool.Result, error) {
	name, err := tool.RequireString(args, "product_name")
	if err != nil {
		return tool.Result{}, err
	}
	if p.lookup == nil {
		return tool.Result{}, errors.New("product catalog is not configured")
	}
	slog.Debug("query_product_database", "product_name", name)
	if err := pause(ctx, p.delay); err != nil {
		return tool.Result{}, err
	}
	product, err := p.lookup.FindProduct(name)
	if err != nil {
		return tool.Result{}, err
	}
	if product == nil {
		return tool.Text(fmt.Sprintf("产品数据库中未找到关于 '%s' 的详细信息。", name)), nil
	}
	return tool.Text(product.Details), nil
}
