package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// ObjectStorage 对象存储接口。上传的简历原件和改写结果分桶存放。
type ObjectStorage interface {
	// UploadOriginal 上传用户提交的简历原件
	UploadOriginal(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error

	// DownloadOriginal 下载简历原件
	DownloadOriginal(ctx context.Context, objectKey string) ([]byte, error)

	// UploadResult 上传改写后的文件
	UploadResult(ctx context.Context, objectKey string, data []byte, contentType string) error

	// ResultURL 获取改写结果的预签名下载URL
	ResultURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// DeleteOriginal 删除简历原件
	DeleteOriginal(ctx context.Context, objectKey string) error
}

// 确保MinIO实现了ObjectStorage接口
var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供对象存储功能
type MinIO struct {
	client       *minio.Client
	uploadBucket string
	resultBucket string
	logger       zerolog.Logger
}

// NewMinIO 创建MinIO客户端并确保两个存储桶存在。
func NewMinIO(cfg *config.MinIOConfig, logger *zerolog.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client:       client,
		uploadBucket: cfg.UploadBucket,
		resultBucket: cfg.ResultBucket,
		logger:       l,
	}

	for _, bucket := range []string{m.uploadBucket, m.resultBucket} {
		if err := m.ensureBucketExists(context.Background(), bucket); err != nil {
			return nil, fmt.Errorf("确保存储桶 %s 存在失败: %w", bucket, err)
		}
	}

	l.Info().Str("endpoint", cfg.Endpoint).
		Str("upload_bucket", m.uploadBucket).
		Str("result_bucket", m.resultBucket).
		Msg("MinIO客户端初始化完成")
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
		}
		m.logger.Info().Str("bucket", bucketName).Msg("存储桶创建成功")
	}
	return nil
}

// UploadOriginal 上传简历原件到上传桶。
func (m *MinIO) UploadOriginal(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.uploadBucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("上传简历原件失败: %w", err)
	}
	m.logger.Debug().Str("object_key", objectKey).Int64("size", size).Msg("简历原件已上传")
	return nil
}

// DownloadOriginal 下载简历原件。
func (m *MinIO) DownloadOriginal(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.uploadBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取简历原件失败: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取简历原件失败: %w", err)
	}
	return data, nil
}

// UploadResult 上传改写结果到结果桶。
func (m *MinIO) UploadResult(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.resultBucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("上传改写结果失败: %w", err)
	}
	m.logger.Debug().Str("object_key", objectKey).Int("size", len(data)).Msg("改写结果已上传")
	return nil
}

// ResultURL 生成改写结果的预签名下载URL。
func (m *MinIO) ResultURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.resultBucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成预签名URL失败: %w", err)
	}
	return u.String(), nil
}

// DeleteOriginal 删除简历原件。
func (m *MinIO) DeleteOriginal(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.uploadBucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除简历原件失败: %w", err)
	}
	return nil
}
