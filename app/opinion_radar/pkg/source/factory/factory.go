package factory

import (
	"context"
	"fmt"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/config"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/engine"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/ptt"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/youtube"
)

// NewJobs 根据配置创建启用的来源及其关键字清单
func NewJobs(ctx context.Context, cfg *config.Config) ([]engine.Job, error) {
	var jobs []engine.Job

	if cfg.PTT.Enabled {
		jobs = append(jobs, engine.Job{
			Source:       ptt.NewClient(cfg.PTT),
			KeywordsFile: cfg.PTT.KeywordsFile,
		})
	}

	if cfg.YouTube.Enabled {
		if cfg.YouTube.APIKey == "" {
			return nil, fmt.Errorf("youtube api key is missing")
		}
		yt, err := youtube.NewClient(ctx, cfg.YouTube)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, engine.Job{
			Source:       yt,
			KeywordsFile: cfg.YouTube.KeywordsFile,
		})
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("no source enabled")
	}
	return jobs, nil
}
