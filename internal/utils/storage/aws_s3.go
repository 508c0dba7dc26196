package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"Nutrilog-Backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	AllowImage = []string{".jpg", ".jpeg", ".png", ".webp"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileOpenFailed     = errors.New("failed to open uploaded file")
)

type (
	AwsS3 interface {
		UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error)
		UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_REGION")

	cfg, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY_ID"),
			utils.GetConfig("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to load aws config: %v", err))
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// UploadFile stores the file under dir/fileName<ext> and returns the object key.
func (a *awsS3) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extensionAllowed(ext, allowedTypes) {
		return "", ErrFileTypeNotAllowed
	}

	objectKey := fmt.Sprintf("%s/%s%s", dir, fileName, ext)
	if err := a.putObject(objectKey, file); err != nil {
		return "", err
	}

	return objectKey, nil
}

// UpdateFile overwrites an existing object in place, keeping its key.
func (a *awsS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extensionAllowed(ext, allowedTypes) {
		return "", ErrFileTypeNotAllowed
	}

	if err := a.putObject(objectKey, file); err != nil {
		return "", err
	}

	return objectKey, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	_, err := a.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	return strings.TrimPrefix(link, prefix)
}

func (a *awsS3) putObject(objectKey string, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return ErrFileOpenFailed
	}
	defer src.Close()

	_, err = a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	return err
}

func extensionAllowed(ext string, allowedTypes []string) bool {
	if len(allowedTypes) == 0 {
		return true
	}
	for _, allowed := range allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
