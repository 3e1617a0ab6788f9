package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/config"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/source"
)

const noTitle = "No Title"

// Client YouTube 影片爬虫。搜索与留言抓取都受配额限制，
// maxVideos / maxComments 的上限就是为配额而设。
type Client struct {
	svc         *youtube.Service
	region      string
	maxVideos   int64
	maxComments int64
}

var _ source.Source = (*Client)(nil)

// NewClient 创建影片爬虫
func NewClient(ctx context.Context, cfg config.YouTubeConfig) (*Client, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("YouTube 服务初始化失败: %w", err)
	}
	return &Client{
		svc:         svc,
		region:      cfg.Region,
		maxVideos:   int64(cfg.MaxVideos),
		maxComments: int64(cfg.MaxComments),
	}, nil
}

// Site 实现 source.Source
func (c *Client) Site() string { return "youtube" }

// ListItems 按关键字搜索影片：最新优先、中等时长、区域限定。
// API 错误记录日志并返回空列表。
func (c *Client) ListItems(ctx context.Context, keyword string) ([]model.ItemRef, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(keyword).
		Type("video").
		MaxResults(c.maxVideos).
		Order("date").
		VideoDuration("medium").
		RegionCode(c.region).
		Context(ctx).
		Do()
	if err != nil {
		logger.Log.Errorf("搜索失败 [%s]: %v", keyword, err)
		return nil, nil
	}

	var refs []model.ItemRef
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		title := noTitle
		if item.Snippet != nil && item.Snippet.Title != "" {
			title = item.Snippet.Title
		}
		refs = append(refs, model.ItemRef{
			ID:    item.Id.VideoId,
			Title: title,
		})
	}
	return refs, nil
}

// FetchItem 抓取单部影片第一页的顶层留言，最多 maxComments 条。
// API 错误记录日志并返回空留言的条目，由编排器整部跳过。
func (c *Client) FetchItem(ctx context.Context, ref model.ItemRef) (*model.Item, error) {
	item := &model.Item{ID: ref.ID, Title: ref.Title}

	resp, err := c.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(ref.ID).
		MaxResults(c.maxComments).
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		logger.Log.Errorf("无法获取评论，影片 ID: %s，标题: %s: %v", ref.ID, ref.Title, err)
		return item, nil
	}

	for _, thread := range resp.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil ||
			thread.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		item.Comments = append(item.Comments, thread.Snippet.TopLevelComment.Snippet.TextOriginal)
	}
	return item, nil
}
