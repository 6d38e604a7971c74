package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of *s3.Client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Options struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
	Folder    string
}

type S3 struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	folder    string
}

// NewS3 loads the default AWS credential chain; static keys and a custom
// endpoint (LocalStack, MinIO) override it when set.
func NewS3(ctx context.Context, o S3Options) (*S3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKey != "" && o.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	publicURL := o.PublicURL
	if publicURL == "" {
		if o.Endpoint != "" {
			publicURL = strings.TrimRight(o.Endpoint, "/") + "/" + o.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
		}
	}
	return NewS3WithClient(client, o.Bucket, publicURL, o.Folder), nil
}

func NewS3WithClient(client ObjectAPI, bucket, publicURL, folder string) *S3 {
	return &S3{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/"), folder: folder}
}

func (s *S3) Upload(ctx context.Context, f File, folder string) (Image, error) {
	key := objectKey(path.Join(s.folder, folder), f.Name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f.Body,
	}
	if f.ContentType != "" {
		in.ContentType = aws.String(f.ContentType)
	}
	if f.Size > 0 {
		in.ContentLength = aws.Int64(f.Size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return Image{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return Image{URL: s.publicURL + "/" + key, PublicID: key}, nil
}

func (s *S3) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", publicID, err)
	}
	return nil
}
