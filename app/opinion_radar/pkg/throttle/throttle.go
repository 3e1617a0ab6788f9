package throttle

import (
	"context"
	"math/rand"
	"time"
)

// Phase 一次运行中不同阶段的延迟区间。对同一远程服务的每次调用之后
// 无条件随机等待，降低被封禁或限流的概率；不做自适应调整。
type Phase struct {
	Min time.Duration
	Max time.Duration
}

// 各阶段的默认区间，对应搜索后、抓留言后、单条目处理完三个点位
var (
	AfterSearch   = Phase{3 * time.Second, 6 * time.Second}
	AfterComments = Phase{2 * time.Second, 5 * time.Second}
	AfterItem     = Phase{1 * time.Second, 3 * time.Second}
)

// Wait 在 [p.Min, p.Max] 内均匀随机等待；取消时立即返回 ctx.Err()
func (p Phase) Wait(ctx context.Context) error {
	d := p.Min
	if p.Max > p.Min {
		d += time.Duration(rand.Int63n(int64(p.Max - p.Min)))
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
