package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// ScoreSummary 某日某关键字的情感分数汇总
type ScoreSummary struct {
	Date    string
	Keyword string
	Total   float64
	Count   int
}

type ScoreRepo interface {
	// SumScores 汇总指定日期与关键字的留言情感分数，NULL 分数按 0 计
	SumScores(ctx context.Context, date, keyword string) (total float64, count int, err error)
}

type ScoreUseCase struct {
	repo ScoreRepo
	log  *log.Helper
}

func NewScoreUseCase(repo ScoreRepo, logger log.Logger) *ScoreUseCase {
	return &ScoreUseCase{repo: repo, log: log.NewHelper(logger)}
}

func (uc *ScoreUseCase) Sum(ctx context.Context, date, keyword string) (*ScoreSummary, error) {
	total, count, err := uc.repo.SumScores(ctx, date, keyword)
	if err != nil {
		return nil, err
	}
	return &ScoreSummary{
		Date:    date,
		Keyword: keyword,
		Total:   total,
		Count:   count,
	}, nil
}
