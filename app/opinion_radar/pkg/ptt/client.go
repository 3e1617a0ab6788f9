package ptt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/config"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/source"
)

const userAgent = "Mozilla/5.0"

// Client PTT 看板爬虫，经由 pttweb 镜像站搜索与抓取
type Client struct {
	baseURL     string
	maxArticles int
	client      *http.Client
	parser      Parser
}

var _ source.Source = (*Client)(nil)

// NewClient 创建看板爬虫
func NewClient(cfg config.PTTConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		maxArticles: cfg.MaxArticles,
		client:      &http.Client{Timeout: timeout},
		parser:      NewParser(cfg.BaseURL),
	}
}

// Site 实现 source.Source
func (c *Client) Site() string { return "ptt" }

// ListItems 搜索关键字，返回最多 maxArticles 篇文章引用。
// 网络失败或非 200 仅记录日志并返回空列表，调用方跳过该关键字。
func (c *Client) ListItems(ctx context.Context, keyword string) ([]model.ItemRef, error) {
	searchURL := fmt.Sprintf("%s/ALLPOST/*%s", c.baseURL, url.PathEscape(keyword))

	body, err := c.get(ctx, searchURL)
	if err != nil {
		logger.Log.Errorf("无法取得搜索结果 [%s]: %v", keyword, err)
		return nil, nil
	}
	defer body.Close()

	refs, err := c.parser.ParseItemList(body, c.maxArticles)
	if err != nil {
		logger.Log.Errorf("解析搜索结果失败 [%s]: %v", keyword, err)
		return nil, nil
	}
	return refs, nil
}

// FetchItem 抓取单篇文章与其全部留言。失败时返回 (nil, nil)。
func (c *Client) FetchItem(ctx context.Context, ref model.ItemRef) (*model.Item, error) {
	body, err := c.get(ctx, ref.URL)
	if err != nil {
		logger.Log.Errorf("连线文章失败 [%s]: %v", ref.URL, err)
		return nil, nil
	}
	defer body.Close()

	item, err := c.parser.ParseItemDetail(body, ref.URL)
	if err != nil {
		logger.Log.Errorf("解析文章失败 [%s]: %v", ref.URL, err)
		return nil, nil
	}
	return item, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
