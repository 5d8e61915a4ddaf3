package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"resume-insights/internal/config"
	"resume-insights/internal/constants"
	"resume-insights/internal/parser"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/rs/zerolog"
)

// MinIO 暂存异步分析的上传文档，分析结束后对象即被删除
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
	logger zerolog.Logger
}

// NewMinIO 创建MinIO客户端并确保暂存桶及其生命周期规则存在
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig, logger zerolog.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("MinIO bucketName 不能为空")
	}
	logger.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("初始化MinIO客户端")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client: client,
		cfg:    cfg,
		bucket: cfg.BucketName,
		logger: logger,
	}

	if err := m.ensureBucketExists(ctx, cfg.Location); err != nil {
		return nil, err
	}
	if cfg.StagingExpireDays > 0 {
		// 兜底清理：处理失败而未被删除的暂存对象由生命周期规则回收
		if err := m.setupBucketLifecycle(ctx, "expire-staging", cfg.StagingExpireDays); err != nil {
			logger.Warn().Err(err).Str("bucket", m.bucket).Msg("设置生命周期规则失败")
		}
	}
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(ctx context.Context, location string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", m.bucket, err)
	}
	if exists {
		m.logger.Debug().Str("bucket", m.bucket).Msg("存储桶已存在")
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", m.bucket, err)
	}
	m.logger.Info().Str("bucket", m.bucket).Msg("存储桶创建成功")
	return nil
}

// setupBucketLifecycle 为暂存桶设置过期规则
func (m *MinIO) setupBucketLifecycle(ctx context.Context, ruleID string, expiryDays int) error {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     ruleID,
			Status: "Enabled",
			RuleFilter: lifecycle.Filter{
				Prefix: constants.StagingPrefix + "/",
			},
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	if err := m.client.SetBucketLifecycle(ctx, m.bucket, lc); err != nil {
		return err
	}
	m.logger.Debug().Str("bucket", m.bucket).Int("expiry_days", expiryDays).Msg("生命周期规则已设置")
	return nil
}

// StagingObjectKey 生成暂存对象的键: staging/{yyyy}/{mm}/{dd}/{submissionID}{ext}
func StagingObjectKey(submissionID, filename string, now time.Time) string {
	return path.Join(constants.StagingPrefix, now.UTC().Format("2006/01/02"), submissionID+parser.Ext(filename))
}

// StageDocument 上传待分析文档，返回对象键
func (m *MinIO) StageDocument(ctx context.Context, submissionID, filename string, data []byte) (string, error) {
	objectKey := StagingObjectKey(submissionID, filename, time.Now())
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: parser.ContentTypeFor(filename),
		UserMetadata: map[string]string{
			"submission-id": submissionID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("上传文件 %s 到存储桶 %s 失败: %w", objectKey, m.bucket, err)
	}
	m.logger.Debug().Str("object", objectKey).Int("size", len(data)).Msg("文档已暂存")
	return objectKey, nil
}

// FetchDocument 下载暂存的文档
func (m *MinIO) FetchDocument(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", m.bucket, objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s/%s 数据失败: %w", m.bucket, objectKey, err)
	}
	return data, nil
}

// RemoveDocument 删除暂存的文档
func (m *MinIO) RemoveDocument(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除对象 %s 失败: %w", objectKey, err)
	}
	m.logger.Debug().Str("object", objectKey).Msg("暂存文档已删除")
	return nil
}
