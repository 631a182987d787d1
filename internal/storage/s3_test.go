package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	bucketExists bool
	created      *s3.CreateBucketInput
	put          *s3.PutObjectInput
	deleted      string
	err          error
}

func (f *fakeObjects) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.bucketExists {
		return nil, errors.New("not found")
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeObjects) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = in
	return &s3.CreateBucketOutput{}, f.err
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, f.err
}

type fakePresigner struct {
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + aws.ToString(in.Key) + "?sig=1"}, nil
}

var testS3Config = S3Config{Region: "eu-west-1", Bucket: "pics", PresignExpiry: time.Hour}

func TestS3Save(t *testing.T) {
	objects := &fakeObjects{}
	s := newS3Storage(objects, &fakePresigner{}, testS3Config)

	require.NoError(t, s.Save(context.Background(), "images/abc-cat.png", strings.NewReader("png")))
	assert.Equal(t, "pics", aws.ToString(objects.put.Bucket))
	assert.Equal(t, "images/abc-cat.png", aws.ToString(objects.put.Key))
	assert.Equal(t, "image/png", aws.ToString(objects.put.ContentType))
	assert.Equal(t, imageCacheControl, aws.ToString(objects.put.CacheControl))

	objects.err = errors.New("boom")
	assert.ErrorContains(t, s.Save(context.Background(), "images/x.png", strings.NewReader("")), "boom")
}

func TestS3Delete(t *testing.T) {
	objects := &fakeObjects{}
	s := newS3Storage(objects, &fakePresigner{}, testS3Config)

	require.NoError(t, s.Delete(context.Background(), "images/abc-cat.png"))
	assert.Equal(t, "images/abc-cat.png", objects.deleted)
}

func TestS3URL(t *testing.T) {
	presigner := &fakePresigner{}
	s := newS3Storage(&fakeObjects{}, presigner, testS3Config)

	assert.Equal(t, "https://signed.example/images/a.png?sig=1", s.URL("images/a.png"))
	assert.Equal(t, time.Hour, presigner.expires)

	presigner.err = errors.New("no credentials")
	assert.Equal(t, "https://pics.s3.eu-west-1.amazonaws.com/images/a.png", s.URL("images/a.png"))
}

func TestBucketURL(t *testing.T) {
	assert.Equal(t, "https://pics.s3.eu-west-1.amazonaws.com", bucketURL(testS3Config))
	assert.Equal(t, "http://minio:9000/pics", bucketURL(S3Config{Bucket: "pics", Endpoint: "http://minio:9000/"}))
}

func TestEnsureBucket(t *testing.T) {
	t.Run("existing bucket is left alone", func(t *testing.T) {
		objects := &fakeObjects{bucketExists: true}
		s := newS3Storage(objects, &fakePresigner{}, testS3Config)
		require.NoError(t, s.ensureBucket(context.Background(), "eu-west-1", true))
		assert.Nil(t, objects.created)
	})

	t.Run("aws outside us-east-1 sets a location", func(t *testing.T) {
		objects := &fakeObjects{}
		s := newS3Storage(objects, &fakePresigner{}, testS3Config)
		require.NoError(t, s.ensureBucket(context.Background(), "eu-west-1", true))
		require.NotNil(t, objects.created.CreateBucketConfiguration)
		assert.EqualValues(t, "eu-west-1", objects.created.CreateBucketConfiguration.LocationConstraint)
	})

	t.Run("custom endpoints get no location", func(t *testing.T) {
		objects := &fakeObjects{}
		s := newS3Storage(objects, &fakePresigner{}, testS3Config)
		require.NoError(t, s.ensureBucket(context.Background(), "eu-west-1", false))
		assert.Nil(t, objects.created.CreateBucketConfiguration)
	})

	t.Run("create failure", func(t *testing.T) {
		objects := &fakeObjects{err: errors.New("denied")}
		s := newS3Storage(objects, &fakePresigner{}, testS3Config)
		assert.ErrorContains(t, s.ensureBucket(context.Background(), "us-east-1", true), "could not be created")
	})
}
