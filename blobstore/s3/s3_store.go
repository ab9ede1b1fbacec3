package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/zerorec/blobstore"
)

// Store implements blobstore.BlobStore for S3.
type Store struct {
	client   Client
	bucket   string
	prefix   string
	upload   UploadConfig
	uploader *manager.Uploader
}

var _ blobstore.BlobStore = (*Store)(nil)

type options struct {
	prefix   string
	upload   UploadConfig
	region   string
	endpoint string
}

// Option configures a Store.
type Option func(*options)

// WithPrefix prepends rootPrefix to all keys (e.g. "my-db/").
func WithPrefix(rootPrefix string) Option {
	return func(o *options) { o.prefix = strings.Trim(rootPrefix, "/") }
}

// WithUploadConfig overrides DefaultUploadConfig.
func WithUploadConfig(cfg UploadConfig) Option {
	return func(o *options) { o.upload = cfg }
}

// WithRegion sets the AWS region used by New.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points New at an S3-compatible endpoint and enables
// path-style addressing.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

func applyOptions(opts []Option) options {
	o := options{upload: DefaultUploadConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New loads the default AWS configuration and creates a Store for bucket.
func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	o := applyOptions(opts)

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
			so.UsePathStyle = true
		}
	})
	return newStore(client, bucket, o), nil
}

// NewStore creates a Store over an existing client.
func NewStore(client Client, bucket string, opts ...Option) *Store {
	return newStore(client, bucket, applyOptions(opts))
}

func newStore(client Client, bucket string, o options) *Store {
	return &Store{
		client:   client,
		bucket:   bucket,
		prefix:   o.prefix,
		upload:   o.upload,
		uploader: newUploader(client, o.upload),
	}
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func validName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q", blobstore.ErrInvalidName, name)
	}
	return nil
}

// Open HEADs the object for its size. Reads are served by ranged GETs.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return &s3Blob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   aws.ToInt64(head.ContentLength),
	}, nil
}

// Put uploads data. Small blobs go out as a single PutObject carrying a
// CRC32C checksum; larger ones use the multipart uploader.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	key := s.key(name)

	if int64(len(data)) <= s.upload.PartSize {
		if s.upload.EnableChecksum {
			return putWithChecksum(ctx, s.client, s.bucket, key, data)
		}
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if s.upload.EnableChecksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}
	_, err := s.uploader.Upload(ctx, input)
	return err
}

// Create streams a blob through the multipart uploader. The object becomes
// visible when Close returns nil.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return newStreamingWritableBlob(ctx, s.uploader, s.bucket, s.key(name), s.upload.EnableChecksum), nil
}

// Delete removes the object. S3 treats missing keys as success.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return listObjects(ctx, s.client, s.bucket, s.key(prefix), s.prefix)
}
