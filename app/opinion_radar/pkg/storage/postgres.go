package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/config"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/model"
)

// RecordWriter 持久化接收端的统一契约
type RecordWriter interface {
	Write(ctx context.Context, rec *model.Record) error
}

// Postgres 关系库接收端。两张固定结构的表按来源分开，首次使用时自动建表。
type Postgres struct {
	db *sql.DB
}

var _ RecordWriter = (*Postgres)(nil)

// NewPostgres 建立数据库连接并确保表存在
func NewPostgres(cfg config.DBConfig) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return p, nil
}

// Close 关闭连接
func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ptt (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			comment TEXT NOT NULL,
			sentiment_score DOUBLE PRECISION,
			site VARCHAR(50) NOT NULL,
			search_keyword VARCHAR(100) NOT NULL,
			capture_date DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS yt (
			id SERIAL PRIMARY KEY,
			video_id VARCHAR(255) NOT NULL,
			title TEXT,
			sentiment_score DOUBLE PRECISION,
			comment_content TEXT,
			comment_sentiment_score DOUBLE PRECISION,
			site VARCHAR(50) NOT NULL,
			search_keyword VARCHAR(100) NOT NULL,
			capture_date DATE NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := p.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// Write 写入一条记录，按来源选择目标表。一条记录对应一条 INSERT。
func (p *Postgres) Write(ctx context.Context, rec *model.Record) error {
	var err error
	switch rec.Site {
	case "ptt":
		_, err = p.db.ExecContext(ctx, `
			INSERT INTO ptt (title, content, comment, sentiment_score, site, search_keyword, capture_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.Title, rec.Content, rec.Comment, rec.CommentScore,
			rec.Site, rec.SearchKeyword, rec.CaptureDate)
	case "youtube":
		_, err = p.db.ExecContext(ctx, `
			INSERT INTO yt (video_id, title, sentiment_score, comment_content, comment_sentiment_score, site, search_keyword, capture_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.VideoID, rec.Title, rec.ItemScore, rec.Comment, rec.CommentScore,
			rec.Site, rec.SearchKeyword, rec.CaptureDate)
	default:
		return fmt.Errorf("unknown site %q", rec.Site)
	}
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}
