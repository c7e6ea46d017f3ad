package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-guard/config"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/service"
	"shift-guard/pkg/database"
	applogger "shift-guard/pkg/logger"
	"shift-guard/pkg/redis"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// runtime 命令执行所需的依赖
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	svc    *service.Service
}

// loadConfig 命令行默认只输出 warn 及以上日志
func loadConfig(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if !opts.verbose {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Format = "console"

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openRuntime 连接数据库并执行迁移；Redis 可选
func openRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger, model.All()...); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, db: db}
	if cfg.Redis.Enabled() {
		rt.rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，使用进程内班次锁", zap.Error(err))
			rt.rdb = nil
		}
	}

	rt.svc, err = service.NewService(cfg, repository.NewRepository(db), rt.rdb, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rt.svc.EnsureDefaults(initCtx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (r *runtime) Close() {
	if sqlDB, err := r.db.DB(); err == nil {
		sqlDB.Close()
	}
	if r.rdb != nil {
		r.rdb.Close()
	}
	r.logger.Sync()
}
