package source

import (
	"context"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

// Source 定义内容来源的通用能力：按关键字列出条目，再逐条抓取明细。
// 两个操作都遵循"记录日志并返回空结果"的失败策略，调用方据此跳过而不中断。
type Source interface {
	// Site 来源标签，写入每条记录（如 "ptt"、"youtube"）
	Site() string
	// ListItems 按关键字搜索，返回有上限的有序条目引用
	ListItems(ctx context.Context, keyword string) ([]model.ItemRef, error)
	// FetchItem 抓取单个条目及其留言；失败时返回 (nil, nil)，由调用方跳过
	FetchItem(ctx context.Context, ref model.ItemRef) (*model.Item, error)
}
