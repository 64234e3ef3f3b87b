// Package source opens decoder input from a local path or an S3 object.
package source

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/fumiama/pngdec/internal/config"
	"github.com/fumiama/pngdec/internal/logging"
	"github.com/fumiama/pngdec/oops"
	"github.com/jpillora/backoff"
)

const s3Scheme = "s3://"

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// An Opener resolves source URIs. The S3 client is created on first use.
type Opener struct {
	S3 config.S3Config

	once    sync.Once
	client  objectGetter
	initErr error
}

var (
	defaultOnce   sync.Once
	defaultOpener *Opener
)

// Open opens uri with the settings in config.Config as they are on the
// first call.
func Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	defaultOnce.Do(func() {
		defaultOpener = &Opener{S3: config.Config.S3}
	})
	return defaultOpener.Open(ctx, uri)
}

func (o *Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if !strings.HasPrefix(uri, s3Scheme) {
		f, err := os.Open(strings.TrimPrefix(uri, "file://"))
		if err != nil {
			return nil, oops.New(err, "failed to open %s", uri)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	return o.fetch(ctx, client, bucket, key)
}

func (o *Opener) s3Client(ctx context.Context) (objectGetter, error) {
	o.once.Do(func() {
		if o.client == nil {
			o.client, o.initErr = NewS3Client(ctx, o.S3)
		}
	})
	return o.client, o.initErr
}

// ParseS3URI splits s3://bucket/key. The key may contain slashes.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, s3Scheme)
	if rest == uri {
		return "", "", oops.New(nil, "%q is not an s3 URI", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", oops.New(nil, "%q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: cfg.Endpoint,
			}, nil
		})))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, oops.New(err, "failed to load S3 configuration")
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

func (o *Opener) fetch(ctx context.Context, client objectGetter, bucket, key string) (io.ReadCloser, error) {
	attempts := o.S3.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	boff := backoff.Backoff{
		Min:    o.S3.RetryMin,
		Max:    o.S3.RetryMax,
		Factor: 2,
	}

	for attempt := 1; ; attempt++ {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			return out.Body, nil
		}
		if isPermanent(err) || attempt >= attempts {
			return nil, oops.New(err, "failed to fetch s3://%s/%s", bucket, key)
		}

		dur := boff.Duration()
		logging.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retrying after", dur).
			Msgf("failed to fetch s3://%s/%s", bucket, key)

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, oops.New(ctx.Err(), "gave up fetching s3://%s/%s", bucket, key)
		case <-timer.C:
		}
	}
}

func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		switch apiError.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "AccessDenied":
			return true
		}
	}
	return false
}
