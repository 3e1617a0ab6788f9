package ptt

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

// 页面结构对应的固定选择器，站点改版时只需调整这里或替换 Parser 实现
const (
	selArticleList = "div.articles a"
	selArticleName = ".name"
	selTitle       = "div.article span.value h1"
	selContent     = "div.article"
	selComment     = "div.push span.f3.push-content"
)

// 解析失败时的占位值
const (
	noTitle   = "No Title"
	noContent = "No Content"
)

// Parser 把页面解析策略从抓取与编排中隔离出来，便于站点改版时替换
type Parser interface {
	// ParseItemList 从搜索结果页解析条目引用，按页面顺序返回，最多 limit 条
	ParseItemList(r io.Reader, limit int) ([]model.ItemRef, error)
	// ParseItemDetail 从文章页解析标题、内文与全部楼层留言
	ParseItemDetail(r io.Reader, pageURL string) (*model.Item, error)
}

// pageParser 基于 CSS 选择器的默认实现
type pageParser struct {
	baseURL string
}

// NewParser 创建默认页面解析器，相对链接会以 baseURL 补全
func NewParser(baseURL string) Parser {
	return &pageParser{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *pageParser) ParseItemList(r io.Reader, limit int) ([]model.ItemRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var refs []model.ItemRef
	doc.Find(selArticleList).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(refs) >= limit {
			return false
		}
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		title := strings.TrimSpace(s.Find(selArticleName).Text())
		refs = append(refs, model.ItemRef{
			Title: title,
			URL:   p.absolute(href),
		})
		return true
	})
	return refs, nil
}

func (p *pageParser) ParseItemDetail(r io.Reader, pageURL string) (*model.Item, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find(selTitle).First().Text())
	if title == "" {
		title = noTitle
	}

	item := &model.Item{
		Title:   title,
		Content: p.extractContent(body, doc, pageURL),
	}

	doc.Find(selComment).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			item.Comments = append(item.Comments, text)
		}
	})
	return item, nil
}

// extractContent 优先用 readability 抽取干净内文，失败时退回选择器全文
func (p *pageParser) extractContent(body []byte, doc *goquery.Document, pageURL string) string {
	if u, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(bytes.NewReader(body), u); err == nil {
			if text := strings.TrimSpace(article.TextContent); text != "" {
				return text
			}
		}
	}
	if text := strings.TrimSpace(doc.Find(selContent).First().Text()); text != "" {
		return text
	}
	return noContent
}

func (p *pageParser) absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return p.baseURL + href
}
