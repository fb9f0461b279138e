package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageStorage stores a decoded image and returns its public URL.
type ImageStorage interface {
	StoreImage(ctx context.Context, data []byte, contentType string) (string, error)
}

// DecodeBase64Image decodes an embedded image payload of the form
// "data:image/png;base64,...." (a bare base64 string is accepted too and
// treated as PNG). Returns the raw bytes and the content type.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	contentType := "image/png"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		semi := strings.Index(payload, ";base64,")
		if semi < 0 {
			return nil, "", validationErr("image", "image must be base64 encoded")
		}
		contentType = payload[len("data:"):semi]
		encoded = payload[semi+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", validationErr("image", "image is not valid base64 data")
	}
	return data, contentType, nil
}

// S3ImageStorage uploads recipe images to an S3 bucket with public-read
// access and returns the object URL.
type S3ImageStorage struct {
	cfg *config.S3Config
}

func NewS3ImageStorage(cfg *config.S3Config) *S3ImageStorage {
	return &S3ImageStorage{cfg: cfg}
}

func (s *S3ImageStorage) StoreImage(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := ".png"
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}

	key := fmt.Sprintf("recipe_images/%s/%s%s", time.Now().UTC().Format("2006/01/02"), uuid.New(), ext)

	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.BucketName, key), nil
}
