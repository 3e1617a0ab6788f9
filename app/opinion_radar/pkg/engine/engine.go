package engine

import (
	"context"
	"time"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/keywords"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/sentiment"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/source"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/storage"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/throttle"
)

// Job 一个来源及其关键字清单
type Job struct {
	Source       source.Source
	KeywordsFile string
}

// delays 影片侧三个点位的限速区间，测试中可整体置零
type delays struct {
	afterSearch   throttle.Phase
	afterComments throttle.Phase
	afterItem     throttle.Phase
}

// Engine 流水线编排器。严格顺序执行：一次处理一个关键字、一个条目、
// 一条留言。任何一个单元失败只记录日志并跳过，整次运行从不因此中止；
// 唯一向上传播的是取消信号。
type Engine struct {
	analyzer sentiment.Analyzer
	sink     storage.RecordWriter
	jobs     []Job
	delays   delays
}

// New 创建编排器
func New(analyzer sentiment.Analyzer, sink storage.RecordWriter, jobs []Job) *Engine {
	return &Engine{
		analyzer: analyzer,
		sink:     sink,
		jobs:     jobs,
		delays: delays{
			afterSearch:   throttle.AfterSearch,
			afterComments: throttle.AfterComments,
			afterItem:     throttle.AfterItem,
		},
	}
}

// Run 执行一次完整运行。抓取日期在开始时定格，整次运行共用。
// 返回非 nil 仅当收到取消信号，此时已提交的记录保持原样。
func (e *Engine) Run(ctx context.Context) error {
	captureDate := time.Now().Format(time.DateOnly)

	for _, job := range e.jobs {
		if err := e.runJob(ctx, job, captureDate); err != nil {
			return err
		}
		logger.Log.Infof("%s 爬取完成", job.Source.Site())
	}
	return nil
}

func (e *Engine) runJob(ctx context.Context, job Job, captureDate string) error {
	kws, err := keywords.Load(job.KeywordsFile)
	if err != nil {
		logger.Log.Errorf("读取关键字文件失败 [%s]: %v", job.KeywordsFile, err)
		return nil
	}

	site := job.Source.Site()
	video := site == "youtube"

	for _, kw := range kws {
		if err := ctx.Err(); err != nil {
			return err
		}

		stored := keywords.Canonical(kw)
		logger.Log.Infof("搜寻关键字: %s (存入 DB 为: %s)", kw, stored)

		refs, err := job.Source.ListItems(ctx, kw)
		if err != nil {
			logger.Log.Errorf("搜索失败 [%s/%s]: %v", site, kw, err)
			continue
		}
		if len(refs) == 0 {
			logger.Log.Infof("关键字 [%s] 在 %s 没有数据", kw, site)
			continue
		}

		if video {
			if err := e.delays.afterSearch.Wait(ctx); err != nil {
				return err
			}
		}

		for _, ref := range refs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.processItem(ctx, job, ref, stored, captureDate); err != nil {
				return err
			}
		}
	}
	return nil
}

// processItem 处理单个条目：抓取、逐条打分、聚合、逐条双写。
// 返回非 nil 仅当取消。
func (e *Engine) processItem(ctx context.Context, job Job, ref model.ItemRef, stored, captureDate string) error {
	site := job.Source.Site()
	video := site == "youtube"

	locator := ref.URL
	if video {
		locator = ref.ID
	}
	logger.Log.Infof("爬取条目: %s (%s)", ref.Title, locator)

	item, err := job.Source.FetchItem(ctx, ref)
	if err != nil || item == nil {
		logger.Log.Warnf("条目抓取失败，跳过 [%s/%s]", site, ref.Title)
		return ctx.Err()
	}

	if video {
		if err := e.delays.afterComments.Wait(ctx); err != nil {
			return err
		}
	}

	// 存储以留言为键，没有留言的条目不产生记录。
	// 这同时保证了均值聚合的分母恒大于零。
	if len(item.Comments) == 0 {
		logger.Log.Warnf("条目没有留言，跳过 [%s/%s]", site, item.Title)
		return nil
	}

	scored := make([]model.Comment, 0, len(item.Comments))
	for _, text := range item.Comments {
		if err := ctx.Err(); err != nil {
			return err
		}
		scored = append(scored, model.Comment{
			Text:  text,
			Score: e.analyzer.Score(ctx, text),
		})
	}

	var itemScore float64
	if video {
		var sum float64
		for _, cm := range scored {
			sum += cm.Score
		}
		itemScore = sum / float64(len(scored))
	}

	for _, cm := range scored {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := &model.Record{
			Site:          site,
			SearchKeyword: stored,
			CaptureDate:   captureDate,
			VideoID:       item.ID,
			Title:         item.Title,
			Content:       item.Content,
			Comment:       cm.Text,
			CommentScore:  cm.Score,
			ItemScore:     itemScore,
		}
		if err := e.sink.Write(ctx, rec); err != nil {
			logger.Log.Errorf("记录写入失败，该记录被丢弃 [%s/%.30s]: %v", site, item.Title, err)
			continue
		}
		logger.Log.Infof("成功储存: %.30s...", item.Title)
	}

	if video {
		if err := e.delays.afterItem.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
