package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

// 每个来源对应的文件名前缀与表头
var (
	sitePrefix = map[string]string{
		"ptt":     "PTT",
		"youtube": "YT",
	}
	siteHeader = map[string][]string{
		"ptt":     {"標題", "內文", "留言", "情感分數", "來源", "關鍵字", "抓取日期"},
		"youtube": {"影片ID", "標題", "影片情感分數", "留言", "留言情感分數", "來源", "關鍵字", "抓取日期"},
	}
)

// Archive 追加式 CSV 归档：每个来源每天一个文件，建档时写一次表头。
// 每次写入独立开关文件句柄，不做缓冲或批量。
type Archive struct {
	dir string
}

var _ RecordWriter = (*Archive)(nil)

// NewArchive 创建归档接收端，目录不存在时自动建立
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Write 追加一行记录
func (a *Archive) Write(_ context.Context, rec *model.Record) error {
	prefix, ok := sitePrefix[rec.Site]
	if !ok {
		return fmt.Errorf("unknown site %q", rec.Site)
	}

	path := filepath.Join(a.dir, fmt.Sprintf("%s_%s.csv", prefix, rec.CaptureDate))

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(siteHeader[rec.Site]); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.Write(a.row(rec)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (a *Archive) row(rec *model.Record) []string {
	if rec.Site == "youtube" {
		return []string{
			rec.VideoID,
			rec.Title,
			formatScore(rec.ItemScore),
			rec.Comment,
			formatScore(rec.CommentScore),
			rec.Site,
			rec.SearchKeyword,
			rec.CaptureDate,
		}
	}
	return []string{
		rec.Title,
		rec.Content,
		rec.Comment,
		formatScore(rec.CommentScore),
		rec.Site,
		rec.SearchKeyword,
		rec.CaptureDate,
	}
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'g', -1, 64)
}
