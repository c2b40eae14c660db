package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iabetor/hatenaexport/internal/archive"
	"github.com/iabetor/hatenaexport/internal/atompub"
	"github.com/iabetor/hatenaexport/internal/config"
	"github.com/iabetor/hatenaexport/internal/database"
	"github.com/iabetor/hatenaexport/internal/export"
	"github.com/iabetor/hatenaexport/internal/logger"
	"github.com/iabetor/hatenaexport/internal/tracing"
)

type flags struct {
	configPath string
	user       string
	blogID     string
	entriesURL string
	year       int
	outputDir  string
	logLevel   string
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "配置文件路径（可选）")
	flag.StringVar(&f.user, "user", "", "Hatena 用户名")
	flag.StringVar(&f.blogID, "blog", "", "博客 ID，例如 example.hatenablog.com")
	flag.StringVar(&f.entriesURL, "url", "", "条目集合端点，覆盖 -user/-blog 生成的地址")
	flag.IntVar(&f.year, "year", 0, "导出的年份")
	flag.StringVar(&f.outputDir, "out", "", "输出目录（默认 entries_{year}）")
	flag.StringVar(&f.logLevel, "log-level", "", "日志级别: debug, info, warn, error")
	flag.Parse()

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg); err != nil {
		logger.Errorf("[main] 导出失败: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// loadConfig 读取配置文件（如有），再用命令行参数覆盖。
func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.user != "" {
		cfg.Blog.User = f.user
		if f.blogID == "" && cfg.Blog.BlogID == "" {
			cfg.Blog.BlogID = f.user + ".hatenablog.com"
		}
	}
	if f.blogID != "" {
		cfg.Blog.BlogID = f.blogID
	}
	if f.entriesURL != "" {
		cfg.Blog.EntriesURL = f.entriesURL
	}
	if f.year != 0 {
		cfg.Export.Year = f.year
	}
	if f.outputDir != "" {
		cfg.Export.OutputDir = f.outputDir
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warnf("[main] 关闭追踪失败: %v", err)
		}
	}()

	creds, err := atompub.LoadCredentials(cfg.Blog.User, cfg.Blog.APIKey)
	if err != nil {
		return err
	}

	feedURL := cfg.FeedURL()
	dateRange := archive.YearRange(cfg.Export.Year, archive.JST)
	logger.Infof("[main] 开始导出 %s 的 %d 年文章", feedURL, cfg.Export.Year)

	client := atompub.NewClient(creds, nil)
	entries, err := archive.NewTraverser(client).Run(ctx, feedURL, dateRange)
	if err != nil {
		return err
	}

	var opts []export.Option
	if cfg.Export.PlainText {
		opts = append(opts, export.WithPlainText())
	}

	var manifest *database.Run
	if cfg.Database.Path != "" {
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return err
		}
		manifest, err = db.StartRun(cfg.Export.Year, feedURL, cfg.OutputDir())
		if err != nil {
			return err
		}
		opts = append(opts, export.WithRecorder(manifest))
	}

	paths, err := export.NewWriter(cfg.OutputDir(), opts...).WriteAll(entries)
	if err != nil {
		return err
	}

	if manifest != nil {
		if err := manifest.Finish(); err != nil {
			return fmt.Errorf("更新导出清单失败: %w", err)
		}
		logger.Infof("[main] 导出清单 %s 已记录", manifest.ID())
	}
	logger.Infof("[main] 完成：共导出 %d 篇文章", len(paths))
	return nil
}
