package collect

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"
)

func writeResults(results []*Result, output io.Writer) error {
	writer := parquet.NewGenericWriter[*Result](output)

	if _, err := writer.Write(results); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write records: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return nil
}

// datePath returns YYYY/MM/DD for the collection date, joined with sep.
func datePath(collected *CollectedSecurities, sep string) string {
	d := collected.AsOf
	return fmt.Sprintf("%04d%s%02d%s%02d", d.Year, sep, int(d.Month), sep, d.Day)
}

// StoreToPath writes the evaluated securities to
// <basepath>/YYYY/MM/DD/<source>.parquet.
func StoreToPath(ctx context.Context, collected *CollectedSecurities, basepath string) (string, error) {
	path := filepath.Join(basepath, datePath(collected, string(filepath.Separator)))

	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return "", err
	}

	outPath := filepath.Join(path, collected.Source+".parquet")

	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeResults(collected.Results(), file); err != nil {
		return "", err
	}

	return outPath, nil
}

type S3Path struct {
	Bucket string
	Prefix string
}

func ParseS3(path string) (*S3Path, error) {
	if !strings.HasPrefix(path, "s3://") {
		return nil, fmt.Errorf("path must start with s3://")
	}

	path = strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(path, "/", 2)

	if parts[0] == "" {
		return nil, fmt.Errorf("missing bucket in s3 path")
	}

	prefix := ""
	if len(parts) > 1 {
		prefix = strings.Trim(parts[1], "/")
	}

	return &S3Path{
		Bucket: parts[0],
		Prefix: prefix,
	}, nil
}

// ObjectPutter is the part of the S3 client used for storage.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ ObjectPutter = (*s3.Client)(nil)

// NewS3Client loads the AWS configuration from the environment and shared
// config files. An empty or "default" profile uses the default chain.
func NewS3Client(ctx context.Context, profile string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" && profile != "default" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}

func StoreToS3(ctx context.Context, collected *CollectedSecurities, client ObjectPutter, dst *S3Path) (string, error) {
	tmp, err := os.CreateTemp("", "treasury-*.parquet")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()
	defer os.Remove(tmp.Name())

	if err := writeResults(collected.Results(), tmp); err != nil {
		return "", err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to seek to start of file: %w", err)
	}

	key := fmt.Sprintf("%s/%s.parquet", datePath(collected, "/"), collected.Source)
	if dst.Prefix != "" {
		key = dst.Prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(key),
		Body:   tmp,
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to s3://%s/%s: %w", dst.Bucket, key, err)
	}

	return fmt.Sprintf("s3://%s/%s", dst.Bucket, key), nil
}
