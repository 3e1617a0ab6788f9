package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

// fakeWriter 可配置失败的接收端
type fakeWriter struct {
	fail   bool
	writes int
}

func (f *fakeWriter) Write(_ context.Context, _ *model.Record) error {
	if f.fail {
		return fmt.Errorf("write refused")
	}
	f.writes++
	return nil
}

func TestDualWriteOrder(t *testing.T) {
	primary := &fakeWriter{}
	archive := &fakeWriter{}
	d := NewDual(primary, archive)

	if err := d.Write(context.Background(), pttRecord("留言", 0.5)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if primary.writes != 1 || archive.writes != 1 {
		t.Errorf("writes = %d/%d, want 1/1", primary.writes, archive.writes)
	}
}

// 主库失败时归档必须没有对应行：归档写入以主库成功为前提
func TestDualPrimaryFailureSkipsArchive(t *testing.T) {
	primary := &fakeWriter{fail: true}
	dir := t.TempDir()
	archive, err := NewArchive(dir)
	if err != nil {
		t.Fatal(err)
	}
	d := NewDual(primary, archive)

	if err := d.Write(context.Background(), pttRecord("留言", 0.5)); err == nil {
		t.Fatal("Write() error = nil, want primary failure")
	}

	if _, err := os.Stat(filepath.Join(dir, "PTT_2026-08-28.csv")); !os.IsNotExist(err) {
		t.Error("archive file exists, want none after primary failure")
	}
}

// 归档失败不回滚主库，也不向上传播；分歧只体现在对账日志里
func TestDualArchiveFailureKeepsPrimary(t *testing.T) {
	primary := &fakeWriter{}
	archive := &fakeWriter{fail: true}
	d := NewDual(primary, archive)

	if err := d.Write(context.Background(), pttRecord("留言", 0.5)); err != nil {
		t.Fatalf("Write() error = %v, want nil", err)
	}
	if primary.writes != 1 {
		t.Errorf("primary writes = %d, want 1", primary.writes)
	}
}
