// Package replica mirrors files stored by the upload server into an S3
// compatible bucket. Object keys are the slash separated store paths.
package replica

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	sc "github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/gabriel-vasile/mimetype"
)

const queueSize = 256

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type op int

const (
	opPut op = iota
	opDelete
)

type job struct {
	op   op
	path string
}

// Replica copies merged files to the bucket and removes deleted ones. Work
// is queued and applied by Run; a full queue drops the event with a warning.
type Replica struct {
	api    objectAPI
	bucket string
	root   string
	jobs   chan job
	log    logging.Logger
}

// New connects to the bucket configured in cfg. root is the directory store
// paths are relative to.
func New(ctx context.Context, cfg *sc.Config, root string, log logging.Logger) (*Replica, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	api := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return newReplica(api, cfg.S3Bucket, root, queueSize, log), nil
}

func newReplica(api objectAPI, bucket, root string, size int, log logging.Logger) *Replica {
	return &Replica{
		api:    api,
		bucket: bucket,
		root:   root,
		jobs:   make(chan job, size),
		log:    log.With("module", "replica", "bucket", bucket),
	}
}

// FileStored queues an upload of path.
func (r *Replica) FileStored(path string) { r.enqueue(job{op: opPut, path: path}) }

// FileDeleted queues removal of the object for path.
func (r *Replica) FileDeleted(path string) { r.enqueue(job{op: opDelete, path: path}) }

func (r *Replica) enqueue(j job) {
	select {
	case r.jobs <- j:
	default:
		r.log.Warn(context.Background(), "replica queue full, event dropped", "path", j.path)
	}
}

// Run applies queued events until ctx is cancelled.
func (r *Replica) Run(ctx context.Context) {
	r.log.Info(ctx, "Starting replica worker")
	for {
		select {
		case j := <-r.jobs:
			r.apply(ctx, j)
		case <-ctx.Done():
			r.log.Info(ctx, "Stopping replica worker", "pending", len(r.jobs))
			return
		}
	}
}

func (r *Replica) apply(ctx context.Context, j job) {
	var err error
	switch j.op {
	case opPut:
		err = r.put(ctx, j.path)
	case opDelete:
		_, err = r.api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(j.path),
		})
	}
	if err != nil {
		r.log.Error(ctx, "replica sync failed", "path", j.path, "error", err)
		return
	}
	r.log.Debug(ctx, "replica synced", "path", j.path)
}

func (r *Replica) put(ctx context.Context, path string) error {
	abs := filepath.Join(r.root, filepath.FromSlash(path))

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(abs); err == nil {
		contentType = mt.String()
	}

	f, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = r.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(path),
		Body:          f,
		ContentLength: aws.Int64(st.Size()),
		ContentType:   aws.String(contentType),
	})
	return err
}
