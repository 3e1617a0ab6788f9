package service

import (
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/fbvsig/opinion_radar/app/display/internal/biz"
)

type DisplayService struct {
	ucScore *biz.ScoreUseCase
	log     *log.Helper
}

func NewDisplayService(ucScore *biz.ScoreUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucScore: ucScore,
		log:     log.NewHelper(logger),
	}
}

type GetScoresReq struct {
	Date    string `json:"date"`
	Keyword string `json:"keyword"`
}

type GetScoresReply struct {
	Date    string  `json:"date"`
	Keyword string  `json:"keyword"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
}

// RegisterRoutes 注册 HTTP 路由
func (s *DisplayService) RegisterRoutes(srv *http.Server) {
	r := srv.Route("/v1")
	r.GET("/scores", s.GetScores)
}

// GetScores 查询某日某关键字的情感分数汇总
func (s *DisplayService) GetScores(ctx http.Context) error {
	var req GetScoresReq
	if err := ctx.BindQuery(&req); err != nil {
		return err
	}
	if req.Date == "" || req.Keyword == "" {
		return errors.BadRequest("MISSING_PARAM", "date and keyword are required")
	}

	summary, err := s.ucScore.Sum(ctx, req.Date, req.Keyword)
	if err != nil {
		return err
	}
	if summary.Count == 0 {
		s.log.Warnf("没有符合条件的数据 date=%s keyword=%s", req.Date, req.Keyword)
	}

	return ctx.Result(200, &GetScoresReply{
		Date:    summary.Date,
		Keyword: summary.Keyword,
		Total:   summary.Total,
		Count:   summary.Count,
	})
}
