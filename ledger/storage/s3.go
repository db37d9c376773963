package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"nutriagent/ledger"
)

// S3 stores one object per user under prefix/<key>.json in a bucket.
type S3 struct {
	bucket string
	prefix string
	s3     *s3.Client
}

func NewS3(s3Client *s3.Client, bucket, prefix string) *S3 {
	return &S3{
		bucket: bucket,
		prefix: prefix,
		s3:     s3Client,
	}
}

func (s *S3) key(name string) string {
	return path.Join(s.prefix, ledger.Key(name)+".json")
}

func (s *S3) Load(ctx context.Context, name string) (*ledger.UserLedger, error) {
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ledger.ErrNotFound
		}
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: err}
	}
	defer resp.Body.Close()

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: err}
	}
	l, err := decode(doc)
	if err != nil {
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: err}
	}
	return l, nil
}

func (s *S3) Save(ctx context.Context, l *ledger.UserLedger) error {
	doc, err := encode(l)
	if err != nil {
		return &ledger.StorageError{Op: "save", User: ledger.Key(l.Name), Err: err}
	}

	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(l.Name)),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return &ledger.StorageError{Op: "save", User: ledger.Key(l.Name), Err: err}
	}
	return nil
}
