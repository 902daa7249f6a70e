package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// ImageContentTypes 변형 이미지로 허용되는 MIME 타입
var ImageContentTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// VariantImageKey 상품별 폴더 아래 고유 키 생성 (variants/<productID>/<uuid><ext>)
func VariantImageKey(productID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("variants/%d/%s%s", productID, uuid.New().String(), ext)
}

// PresignVariantImage returns a PUT URL the client uploads the image to and
// the public URL to store on the variant afterwards.
func (s *S3Storage) PresignVariantImage(ctx context.Context, productID uint, filename, contentType string) (*PresignedURLResponse, error) {
	if err := ValidateContentType(contentType, ImageContentTypes); err != nil {
		return nil, err
	}

	key := VariantImageKey(productID, filename)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
