package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/config"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/engine"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/sentiment"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/source/factory"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/storage"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// .env 可选，不存在时直接用系统环境变量
	_ = gotenv.Load()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动舆情雷达...")

	// 收到中断信号后取消当前工作单元，已提交的记录不受影响
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化持久化：主库 + 归档，双写
	store, err := storage.NewPostgres(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()
	logger.Log.Info("已成功连接到数据库")

	archive, err := storage.NewArchive(cfg.Archive.Dir)
	if err != nil {
		logger.Log.Fatalf("无法建立归档目录: %v", err)
	}
	sink := storage.NewDual(store, archive)

	// 4. 初始化情感打分器
	analyzer, err := sentiment.NewModelAnalyzer(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("情感打分器初始化失败: %v", err)
	}

	// 5. 初始化来源
	jobs, err := factory.NewJobs(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("来源初始化失败: %v", err)
	}

	// 6. 顺序执行流水线
	eng := engine.New(analyzer, sink, jobs)
	if err := eng.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Log.Info("程式被中断，结束执行。")
			return
		}
		logger.Log.Fatalf("运行失败: %v", err)
	}

	logger.Log.Info("全部爬取完成")
}
