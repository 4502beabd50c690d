package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/docshelf/internal/logging"
	"github.com/dmitrijs2005/docshelf/internal/netx"
)

var ErrUnsupportedScheme = errors.New("unsupported download url")

const defaultS3Region = "us-east-1"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Downloader fetches url into the local file dest and reports the remote
// status. Only status 200 means dest was written.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (int, error)
}

// S3Config points s3:// downloads at an S3-compatible store. Empty keys fall
// back to the default AWS credential chain.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

type Manager struct {
	http   *http.Client
	s3     S3Config
	logger logging.Logger
}

func NewManager(httpClient *http.Client, s3cfg S3Config, logger logging.Logger) *Manager {
	return &Manager{
		http:   httpClient,
		s3:     s3cfg,
		logger: logger.With("component", "transfer"),
	}
}

func (m *Manager) Download(ctx context.Context, rawURL, dest string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "s3":
		signed, err := m.presign(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return 0, fmt.Errorf("presign %s: %w", rawURL, err)
		}
		rawURL = signed
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, rawURL)
	}

	status, err := netx.DownloadToFile(ctx, m.http, rawURL, dest)
	m.logger.Debug(ctx, "download", "url", u.Redacted(), "dest", dest, "status", status, "error", err)
	return status, err
}

func (m *Manager) presign(ctx context.Context, bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("%w: s3 url needs bucket and key", ErrUnsupportedScheme)
	}

	region := m.s3.Region
	if region == "" {
		region = defaultS3Region
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if m.s3.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(m.s3.AccessKey, m.s3.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return "", err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if m.s3.Endpoint != "" {
			o.BaseEndpoint = aws.String(m.s3.Endpoint)
			o.UsePathStyle = true
		}
	})

	req, err := presignGetObject(s3.NewPresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
