package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/objectfs/s3fs/pkg/types"
)

// Client implements types.Backend against a single S3 bucket.
type Client struct {
	api        *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	presigner  *s3.PresignClient
	bucket     string
	config     *Config
	logger     *slog.Logger
}

// NewClient creates an S3 backend client for the given bucket.
func NewClient(ctx context.Context, bucket string, cfg *Config, logger *slog.Logger) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 config: %w", err)
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(cfg.MaxRetries),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
		if cfg.UseAccelerate {
			o.UseAccelerate = true
		}
		if cfg.UseDualStack {
			o.EndpointOptions.UseDualStackEndpoint = aws.DualStackEndpointStateEnabled
		}
	})

	uploader := manager.NewUploader(api, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
	})
	downloader := manager.NewDownloader(api, func(d *manager.Downloader) {
		d.PartSize = cfg.PartSize
		d.Concurrency = cfg.Concurrency
	})

	return &Client{
		api:        api,
		uploader:   uploader,
		downloader: downloader,
		presigner:  s3.NewPresignClient(api),
		bucket:     bucket,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Bucket returns the bucket the client is bound to.
func (c *Client) Bucket() string {
	return c.bucket
}

// PutObject writes body as a single object at key.
func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, args *types.UploadArgs) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	applyUploadArgs(input, args)

	c.logger.Debug("put object", "bucket", c.bucket, "key", key)
	if _, err := c.uploader.Upload(ctx, input); err != nil {
		return translateError("put", key, err)
	}
	return nil
}

// GetObject opens a read stream over an object, optionally restricted to a
// byte range.
func (c *Client) GetObject(ctx context.Context, key string, rng *types.Range, args *types.DownloadArgs) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if rng != nil {
		input.Range = aws.String(formatRange(rng))
	}
	if args != nil && args.VersionID != "" {
		input.VersionId = aws.String(args.VersionID)
	}

	c.logger.Debug("get object", "bucket", c.bucket, "key", key)
	out, err := c.api.GetObject(ctx, input)
	if err != nil {
		return nil, translateError("get", key, err)
	}
	return out.Body, nil
}

// Download fetches the whole object into w using concurrent ranged reads.
func (c *Client) Download(ctx context.Context, key string, w io.WriterAt, args *types.DownloadArgs) (int64, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if args != nil && args.VersionID != "" {
		input.VersionId = aws.String(args.VersionID)
	}

	c.logger.Debug("download object", "bucket", c.bucket, "key", key)
	n, err := c.downloader.Download(ctx, w, input)
	if err != nil {
		return 0, translateError("download", key, err)
	}
	return n, nil
}

// HeadObject fetches object metadata without the body.
func (c *Client) HeadObject(ctx context.Context, key string) (*types.ObjectInfo, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translateError("head", key, err)
	}

	info := &types.ObjectInfo{
		Key:                  key,
		Size:                 aws.ToInt64(out.ContentLength),
		LastModified:         aws.ToTime(out.LastModified),
		ETag:                 aws.ToString(out.ETag),
		ContentType:          aws.ToString(out.ContentType),
		ContentEncoding:      aws.ToString(out.ContentEncoding),
		CacheControl:         aws.ToString(out.CacheControl),
		StorageClass:         string(out.StorageClass),
		VersionID:            aws.ToString(out.VersionId),
		ServerSideEncryption: string(out.ServerSideEncryption),
		Metadata:             out.Metadata,
	}
	return info, nil
}

// DeleteObject removes an object. S3 treats deleting a missing key as success,
// which matches the filesystem core's expectations for marker cleanup.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	c.logger.Debug("delete object", "bucket", c.bucket, "key", key)
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return translateError("delete", key, err)
	}
	return nil
}

// ListObjects performs one paged prefix-list query.
func (c *Client) ListObjects(ctx context.Context, query *types.ListQuery) (*types.ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(query.Prefix),
	}
	if query.Delimiter != "" {
		input.Delimiter = aws.String(query.Delimiter)
	}
	if query.ContinuationToken != "" {
		input.ContinuationToken = aws.String(query.ContinuationToken)
	}
	if query.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(query.MaxKeys)
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, translateError("list", query.Prefix, err)
	}

	page := &types.ListPage{
		Truncated:         aws.ToBool(out.IsTruncated),
		ContinuationToken: aws.ToString(out.NextContinuationToken),
	}
	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, types.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		})
	}
	for _, cp := range out.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}
	return page, nil
}

// CopyObject performs a server-side copy between two keys in the bucket.
func (c *Client) CopyObject(ctx context.Context, srcKey, dstKey string, args *types.UploadArgs) error {
	input := &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(url.PathEscape(c.bucket + "/" + srcKey)),
	}
	if args != nil {
		if args.ACL != "" {
			input.ACL = s3types.ObjectCannedACL(args.ACL)
		}
		if args.StorageClass != "" {
			input.StorageClass = s3types.StorageClass(args.StorageClass)
		}
		if args.ContentType != "" || len(args.Metadata) > 0 {
			input.MetadataDirective = s3types.MetadataDirectiveReplace
			if args.ContentType != "" {
				input.ContentType = aws.String(args.ContentType)
			}
			if len(args.Metadata) > 0 {
				input.Metadata = args.Metadata
			}
		}
	}

	c.logger.Debug("copy object", "bucket", c.bucket, "src", srcKey, "dst", dstKey)
	if _, err := c.api.CopyObject(ctx, input); err != nil {
		return translateError("copy", srcKey, err)
	}
	return nil
}

// PresignGetObject produces a time-limited signed download URL for key.
func (c *Client) PresignGetObject(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", translateError("presign", key, err)
	}
	return req.URL, nil
}

// HealthCheck verifies the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return translateError("head-bucket", c.bucket, err)
	}
	return nil
}

// applyUploadArgs maps merged upload arguments onto a PutObjectInput.
func applyUploadArgs(input *s3.PutObjectInput, args *types.UploadArgs) {
	if args == nil {
		return
	}
	if args.ContentType != "" {
		input.ContentType = aws.String(args.ContentType)
	}
	if args.ContentEncoding != "" {
		input.ContentEncoding = aws.String(args.ContentEncoding)
	}
	if args.ContentDisposition != "" {
		input.ContentDisposition = aws.String(args.ContentDisposition)
	}
	if args.CacheControl != "" {
		input.CacheControl = aws.String(args.CacheControl)
	}
	if args.ACL != "" {
		input.ACL = s3types.ObjectCannedACL(args.ACL)
	}
	if args.StorageClass != "" {
		input.StorageClass = s3types.StorageClass(args.StorageClass)
	}
	if args.ServerSideEncryption != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryption(args.ServerSideEncryption)
	}
	if args.SSEKMSKeyID != "" {
		input.SSEKMSKeyId = aws.String(args.SSEKMSKeyID)
	}
	if len(args.Metadata) > 0 {
		input.Metadata = args.Metadata
	}
}

// formatRange renders a types.Range as an HTTP Range header value.
func formatRange(rng *types.Range) string {
	if rng.Length < 0 {
		return fmt.Sprintf("bytes=%d-", rng.Offset)
	}
	return fmt.Sprintf("bytes=%d-%d", rng.Offset, rng.Offset+rng.Length-1)
}
