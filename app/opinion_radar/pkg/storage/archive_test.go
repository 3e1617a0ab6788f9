package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

func pttRecord(comment string, score float64) *model.Record {
	return &model.Record{
		Site:          "ptt",
		SearchKeyword: "testterm",
		CaptureDate:   "2026-08-28",
		Title:         "測試標題",
		Content:       "測試內文",
		Comment:       comment,
		CommentScore:  score,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestArchiveWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArchive(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := a.Write(ctx, pttRecord("第一則", 0.5)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := a.Write(ctx, pttRecord("第二則", -0.5)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "PTT_2026-08-28.csv"))
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "標題" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "第一則" || rows[2][2] != "第二則" {
		t.Errorf("rows out of order: %v", rows[1:])
	}
	if rows[1][3] != "0.5" {
		t.Errorf("score cell = %q, want 0.5", rows[1][3])
	}
}

func TestArchiveSeparatesFilesBySite(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArchive(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := a.Write(ctx, pttRecord("留言", 0.1)); err != nil {
		t.Fatal(err)
	}
	ytRec := &model.Record{
		Site:          "youtube",
		SearchKeyword: "facebook",
		CaptureDate:   "2026-08-28",
		VideoID:       "vid1",
		Title:         "影片",
		Comment:       "留言",
		CommentScore:  0.2,
		ItemScore:     0.2,
	}
	if err := a.Write(ctx, ytRec); err != nil {
		t.Fatal(err)
	}

	ytRows := readCSV(t, filepath.Join(dir, "YT_2026-08-28.csv"))
	if len(ytRows) != 2 {
		t.Fatalf("yt rows = %d, want header + 1", len(ytRows))
	}
	if ytRows[0][0] != "影片ID" || ytRows[1][0] != "vid1" {
		t.Errorf("yt rows = %v", ytRows)
	}
}

func TestArchiveUnknownSite(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := &model.Record{Site: "unknown", CaptureDate: "2026-08-28"}
	if err := a.Write(context.Background(), rec); err == nil {
		t.Error("Write() error = nil, want error for unknown site")
	}
}
