package data

import (
	"context"
	"database/sql"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/fbvsig/opinion_radar/app/display/internal/biz"
)

type scoreRepo struct {
	data *Data
	log  *log.Helper
}

func NewScoreRepo(data *Data, logger log.Logger) biz.ScoreRepo {
	return &scoreRepo{data: data, log: log.NewHelper(logger)}
}

// SumScores 逐行取出指定日期与关键字的分数并累加，NULL 分数按 0 计
func (r *scoreRepo) SumScores(ctx context.Context, date, keyword string) (float64, int, error) {
	rows, err := r.data.db.QueryContext(ctx, `
		SELECT sentiment_score
		FROM ptt
		WHERE capture_date = $1 AND search_keyword = $2`,
		date, keyword)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var (
		total float64
		count int
	)
	for rows.Next() {
		var score sql.NullFloat64
		if err := rows.Scan(&score); err != nil {
			return 0, 0, err
		}
		if score.Valid {
			total += score.Float64
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	return total, count, nil
}
