package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"tush00nka/bbbab_chats/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectUploader — то, что умеет manager.Uploader; в тестах подменяется.
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type attachmentService struct {
	uploader   ObjectUploader
	bucket     string
	cdnBaseURL string
}

func NewAttachmentService(cfg *config.Config) (AttachmentService, error) {
	s3Opts := []func(*s3.Options){}

	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // Обязательно для MinIO
		})
	}

	credsProvider := credentials.NewStaticCredentialsProvider(
		cfg.S3AccessKeyID,
		cfg.S3SecretAccessKey,
		"",
	)

	awsCfg := aws.Config{
		Region:      cfg.S3Region,
		Credentials: credsProvider,
	}

	s3Client := s3.NewFromConfig(awsCfg, s3Opts...)

	log.Printf("S3 attachment service initialized with endpoint: %s", cfg.S3Endpoint)

	return &attachmentService{
		uploader:   manager.NewUploader(s3Client),
		bucket:     cfg.S3BucketName,
		cdnBaseURL: strings.TrimRight(cfg.CDNBaseURL, "/"),
	}, nil
}

// NewAttachmentServiceWithUploader для тестов и нестандартных клиентов.
func NewAttachmentServiceWithUploader(uploader ObjectUploader, bucket, cdnBaseURL string) AttachmentService {
	return &attachmentService{
		uploader:   uploader,
		bucket:     bucket,
		cdnBaseURL: strings.TrimRight(cdnBaseURL, "/"),
	}
}

// Store загружает файл и возвращает публичный URL. Расширение выбирается
// по MIME: image/* -> jpg, всё остальное считаем голосовым -> ogg.
// Узкая эвристика, унаследована от формата загрузок клиента.
func (s *attachmentService) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty attachment payload", ErrValidation)
	}

	ext := "ogg"
	if strings.Contains(mimeType, "image") {
		ext = "jpg"
	}

	now := time.Now()
	key := fmt.Sprintf("uploads/%d/%d/%s.%s", now.Year(), int(now.Month()), uuid.New().String(), ext)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAttachmentStore, err)
	}

	return s.cdnBaseURL + "/" + key, nil
}
