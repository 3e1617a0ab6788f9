package storage

import (
	"context"
	"fmt"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

// Dual 双写接收端：先写关系库，成功后再写归档文件。
// 关系库失败时整条记录丢弃（由调用方记录日志继续）；
// 归档失败不回滚关系库，但必须留下可对账的分歧日志，两边不允许静默漂移。
type Dual struct {
	primary RecordWriter
	archive RecordWriter
}

var _ RecordWriter = (*Dual)(nil)

// NewDual 组合关系库与归档接收端
func NewDual(primary, archive RecordWriter) *Dual {
	return &Dual{primary: primary, archive: archive}
}

// Write 两阶段写入
func (d *Dual) Write(ctx context.Context, rec *model.Record) error {
	if err := d.primary.Write(ctx, rec); err != nil {
		return fmt.Errorf("主库写入失败: %w", err)
	}

	if err := d.archive.Write(ctx, rec); err != nil {
		// 对账入口：主库已提交而归档缺行，按这条日志补齐
		logger.Log.Errorf("归档写入失败，主库与归档出现分歧 site=%s date=%s keyword=%s title=%.30s: %v",
			rec.Site, rec.CaptureDate, rec.SearchKeyword, rec.Title, err)
	}
	return nil
}
