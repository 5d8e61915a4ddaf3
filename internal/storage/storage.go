package storage

import (
	"context"
	"fmt"
	"strings"

	"resume-insights/internal/config"
	"resume-insights/internal/logger"
)

// Storage 存储管理器，聚合所有可选的外部依赖。未启用或初始化失败的组件为 nil
type Storage struct {
	// 异步分析暂存
	MinIO *MinIO

	// 异步任务队列
	RabbitMQ *RabbitMQ

	// 结果缓存与提交状态
	Redis *Redis
}

// NewStorage 按配置初始化各组件。单个组件失败只记录警告，
// 仅当启用的组件全部失败时返回错误
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var err error
	var enabled int
	var initErrors []string

	if cfg.Redis.Enabled {
		enabled++
		storage.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis客户端初始化成功")
		}
	}

	if cfg.MinIO.Enabled {
		enabled++
		storage.MinIO, err = NewMinIO(ctx, &cfg.MinIO, logger.Logger.With().Str("component", "minio").Logger())
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		}
	}

	if cfg.RabbitMQ.Enabled {
		enabled++
		storage.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ, logger.Logger.With().Str("component", "rabbitmq").Logger())
		if err == nil {
			if err = storage.RabbitMQ.SetupTopology(); err != nil {
				storage.RabbitMQ.Close()
				storage.RabbitMQ = nil
			}
		}
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		}
	}

	if enabled > 0 && len(initErrors) == enabled {
		return nil, fmt.Errorf("所有存储组件初始化失败: %s", strings.Join(initErrors, "; "))
	}
	if len(initErrors) > 0 {
		logger.Warn().Str("failed", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}
	return storage, nil
}

// AsyncReady 异步分析所需的三个组件是否全部可用
func (s *Storage) AsyncReady() bool {
	return s != nil && s.Redis != nil && s.MinIO != nil && s.RabbitMQ != nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s == nil {
		return
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO 客户端基于 HTTP，无需显式关闭
}
