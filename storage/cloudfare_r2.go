package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config" // Используем этот импорт для config
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type CloudflareR2StoreConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string // Необязателен: нужен только для GetPublicURL
	Prefix          string // Префикс ключей экспорта, например "kratos/api"
}

type cloudflareR2Store struct {
	s3Client      *s3.Client
	bucketName    string
	publicBaseURL string
	prefix        string
}

func NewCloudflareR2Store(ctx context.Context, cfg CloudflareR2StoreConfig) (ObjectStore, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, errors.New("invalid Cloudflare R2 configuration: account id, access key, secret and bucket are required")
	}

	r2Endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"), // R2 принимает только "auto"
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	s3Client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2Endpoint)
	})

	return &cloudflareR2Store{
		s3Client:      s3Client,
		bucketName:    cfg.BucketName,
		publicBaseURL: cfg.PublicBaseURL,
		prefix:        strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *cloudflareR2Store) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *cloudflareR2Store) Get(ctx context.Context, key string) (*Object, error) {
	fullKey := s.objectKey(key)
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, fullKey)
		}
		return nil, fmt.Errorf("failed to get object from R2 (key: %s): %w", fullKey, err)
	}

	return &Object{
		Key:         fullKey,
		ContentType: aws.ToString(out.ContentType),
		Body:        out.Body,
	}, nil
}

func (s *cloudflareR2Store) GetPublicURL(key string) string {
	if s.publicBaseURL == "" || key == "" {
		return "" // Не можем сформировать URL без этих данных
	}

	baseURL, err := url.Parse(strings.TrimRight(s.publicBaseURL, "/") + "/")
	if err != nil {
		return ""
	}
	pathURL, err := url.Parse(s.objectKey(key))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(pathURL).String()
}
