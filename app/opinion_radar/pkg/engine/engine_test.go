package engine

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/storage"
)

// stubSource 模拟内容来源
type stubSource struct {
	site  string
	refs  []model.ItemRef
	items map[string]*model.Item // key: ref.ID 或 ref.URL
}

func (s *stubSource) Site() string { return s.site }

func (s *stubSource) ListItems(_ context.Context, _ string) ([]model.ItemRef, error) {
	return s.refs, nil
}

func (s *stubSource) FetchItem(_ context.Context, ref model.ItemRef) (*model.Item, error) {
	key := ref.ID
	if key == "" {
		key = ref.URL
	}
	return s.items[key], nil
}

// stubAnalyzer 按预置表打分，并统计调用次数
type stubAnalyzer struct {
	scores map[string]float64
	calls  int
}

func (a *stubAnalyzer) Score(_ context.Context, text string) float64 {
	a.calls++
	return a.scores[text]
}

// memSink 记录写入的接收端，可配置前 failFirst 次写入失败
type memSink struct {
	records   []*model.Record
	failFirst int
	writes    int
}

func (m *memSink) Write(_ context.Context, rec *model.Record) error {
	m.writes++
	if m.writes <= m.failFirst {
		return fmt.Errorf("sink unavailable")
	}
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func writeKeywords(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keywords.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestEngine(analyzer *stubAnalyzer, sink *memSink, jobs []Job) *Engine {
	e := New(analyzer, sink, jobs)
	e.delays = delays{} // 测试中不等待
	return e
}

func TestRunBoardPipeline(t *testing.T) {
	src := &stubSource{
		site: "ptt",
		refs: []model.ItemRef{{Title: "測試文章", URL: "https://pttweb.tw/a/1"}},
		items: map[string]*model.Item{
			"https://pttweb.tw/a/1": {
				Title:    "測試文章",
				Content:  "測試內文",
				Comments: []string{"推", "噓"},
			},
		},
	}
	analyzer := &stubAnalyzer{scores: map[string]float64{"推": 0.5, "噓": -0.5}}
	sink := &memSink{}
	e := newTestEngine(analyzer, sink, []Job{{Source: src, KeywordsFile: writeKeywords(t, "testterm\n")}})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sink.records) != 2 {
		t.Fatalf("records = %d, want 2", len(sink.records))
	}
	today := time.Now().Format(time.DateOnly)
	wantScores := []float64{0.5, -0.5}
	for i, rec := range sink.records {
		if rec.Site != "ptt" {
			t.Errorf("record %d site = %q, want ptt", i, rec.Site)
		}
		if rec.SearchKeyword != "testterm" {
			t.Errorf("record %d keyword = %q, want testterm", i, rec.SearchKeyword)
		}
		if rec.CommentScore != wantScores[i] {
			t.Errorf("record %d score = %v, want %v", i, rec.CommentScore, wantScores[i])
		}
		if rec.CaptureDate != today {
			t.Errorf("record %d date = %q, want %q", i, rec.CaptureDate, today)
		}
		if rec.Content != "測試內文" {
			t.Errorf("record %d content = %q", i, rec.Content)
		}
	}
}

func TestRunVideoAggregate(t *testing.T) {
	src := &stubSource{
		site: "youtube",
		refs: []model.ItemRef{{ID: "vid1", Title: "影片一"}},
		items: map[string]*model.Item{
			"vid1": {ID: "vid1", Title: "影片一", Comments: []string{"a", "b", "c"}},
		},
	}
	analyzer := &stubAnalyzer{scores: map[string]float64{"a": 0.2, "b": -0.4, "c": 0.6}}
	sink := &memSink{}
	e := newTestEngine(analyzer, sink, []Job{{Source: src, KeywordsFile: writeKeywords(t, "term\n")}})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sink.records) != 3 {
		t.Fatalf("records = %d, want 3", len(sink.records))
	}
	wantMean := (0.2 - 0.4 + 0.6) / 3
	for i, rec := range sink.records {
		if math.Abs(rec.ItemScore-wantMean) > 1e-9 {
			t.Errorf("record %d item score = %v, want %v", i, rec.ItemScore, wantMean)
		}
		if rec.VideoID != "vid1" {
			t.Errorf("record %d video id = %q", i, rec.VideoID)
		}
	}
}

func TestRunVideoNoComments(t *testing.T) {
	src := &stubSource{
		site: "youtube",
		refs: []model.ItemRef{{ID: "vid1", Title: "影片一"}},
		items: map[string]*model.Item{
			"vid1": {ID: "vid1", Title: "影片一"},
		},
	}
	analyzer := &stubAnalyzer{}
	sink := &memSink{}
	e := newTestEngine(analyzer, sink, []Job{{Source: src, KeywordsFile: writeKeywords(t, "term\n")}})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sink.records) != 0 {
		t.Errorf("records = %d, want 0", len(sink.records))
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer calls = %d, want 0", analyzer.calls)
	}
}

func TestRunNoMatchingItems(t *testing.T) {
	src := &stubSource{site: "ptt"}
	sink := &memSink{}
	e := newTestEngine(&stubAnalyzer{}, sink, []Job{{Source: src, KeywordsFile: writeKeywords(t, "nothing\n")}})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("records = %d, want 0", len(sink.records))
	}
}

func TestRunMissingKeywordsFile(t *testing.T) {
	src := &stubSource{site: "ptt"}
	sink := &memSink{}
	e := newTestEngine(&stubAnalyzer{}, sink, []Job{{Source: src, KeywordsFile: "does/not/exist.txt"}})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("records = %d, want 0", len(sink.records))
	}
}

// 重复执行同一关键字必须产生重复记录：流水线只追加，没有去重键
func TestRerunProducesDuplicates(t *testing.T) {
	src := &stubSource{
		site: "ptt",
		refs: []model.ItemRef{{Title: "文章", URL: "u1"}},
		items: map[string]*model.Item{
			"u1": {Title: "文章", Content: "內文", Comments: []string{"留言"}},
		},
	}
	sink := &memSink{}
	kw := writeKeywords(t, "testterm\n")
	e := newTestEngine(&stubAnalyzer{scores: map[string]float64{"留言": 0.1}}, sink, []Job{{Source: src, KeywordsFile: kw}})

	for i := 0; i < 2; i++ {
		if err := e.Run(context.Background()); err != nil {
			t.Fatalf("Run() #%d error = %v", i+1, err)
		}
	}

	if len(sink.records) != 2 {
		t.Fatalf("records after two runs = %d, want 2", len(sink.records))
	}
	if sink.records[0].Comment != sink.records[1].Comment {
		t.Errorf("expected duplicate records, got %q and %q",
			sink.records[0].Comment, sink.records[1].Comment)
	}
}

// 单条记录写入失败只丢弃该记录，后续记录照常写入
func TestSinkFailureDropsSingleRecord(t *testing.T) {
	src := &stubSource{
		site: "ptt",
		refs: []model.ItemRef{{Title: "文章", URL: "u1"}},
		items: map[string]*model.Item{
			"u1": {Title: "文章", Content: "內文", Comments: []string{"一", "二"}},
		},
	}
	sink := &memSink{failFirst: 1}
	e := newTestEngine(&stubAnalyzer{}, sink, []Job{{Source: src, KeywordsFile: writeKeywords(t, "term\n")}})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("records = %d, want 1", len(sink.records))
	}
	if sink.records[0].Comment != "二" {
		t.Errorf("surviving record = %q, want 二", sink.records[0].Comment)
	}
}

// 端到端：经由双写接收端，记录必须同时落在主库与归档文件中
func TestRunBoardDualSink(t *testing.T) {
	src := &stubSource{
		site: "ptt",
		refs: []model.ItemRef{{Title: "測試文章", URL: "u1"}},
		items: map[string]*model.Item{
			"u1": {Title: "測試文章", Content: "內文", Comments: []string{"推", "噓"}},
		},
	}
	analyzer := &stubAnalyzer{scores: map[string]float64{"推": 0.5, "噓": -0.5}}

	primary := &memSink{}
	dir := t.TempDir()
	archive, err := storage.NewArchive(dir)
	if err != nil {
		t.Fatal(err)
	}
	dual := storage.NewDual(primary, archive)

	e := New(analyzer, dual, []Job{{Source: src, KeywordsFile: writeKeywords(t, "testterm\n")}})
	e.delays = delays{}

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(primary.records) != 2 {
		t.Fatalf("primary records = %d, want 2", len(primary.records))
	}

	today := time.Now().Format(time.DateOnly)
	data, err := os.ReadFile(filepath.Join(dir, "PTT_"+today+".csv"))
	if err != nil {
		t.Fatalf("archive file missing: %v", err)
	}
	lines := strings.Count(string(data), "\n")
	if lines != 3 {
		t.Errorf("archive lines = %d, want header + 2", lines)
	}
}

func TestRunCanceled(t *testing.T) {
	src := &stubSource{
		site: "ptt",
		refs: []model.ItemRef{{Title: "文章", URL: "u1"}},
		items: map[string]*model.Item{
			"u1": {Title: "文章", Comments: []string{"留言"}},
		},
	}
	sink := &memSink{}
	e := newTestEngine(&stubAnalyzer{}, sink, []Job{{Source: src, KeywordsFile: writeKeywords(t, "term\n")}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("records = %d, want 0", len(sink.records))
	}
}
