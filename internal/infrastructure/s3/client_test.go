package s3infra

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-video-api/internal/config"
)

type mockObjects struct{ mock.Mock }

func (m *mockObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", PublicBaseURL(&config.Config{MediaPublicBaseURL: "https://cdn.example.com"}))
	assert.Equal(t, "http://localhost:4566/media", PublicBaseURL(&config.Config{AWSEndpointURL: "http://localhost:4566/", S3BucketName: "media"}))
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", PublicBaseURL(&config.Config{S3BucketName: "media", AWSRegion: "eu-west-1"}))
}

func TestUpload_ReturnsPublicURL(t *testing.T) {
	m := new(mockObjects)
	s := NewStore(m, "media", "https://cdn.example.com/")
	m.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "media" && *in.Key == "videos/u1/v.mp4" && *in.ContentType == "video/mp4"
	})).Return(&s3.PutObjectOutput{}, nil)

	url, err := s.Upload(context.Background(), "videos/u1/v.mp4", strings.NewReader("data"), "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/videos/u1/v.mp4", url)
	m.AssertExpectations(t)
}

func TestUpload_WrapsError(t *testing.T) {
	m := new(mockObjects)
	m.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))
	_, err := NewStore(m, "media", "https://cdn").Upload(context.Background(), "k", strings.NewReader(""), "image/png")
	assert.ErrorContains(t, err, "s3 put object")
}

func TestDelete_OnlyOwnURLs(t *testing.T) {
	m := new(mockObjects)
	s := NewStore(m, "media", "https://cdn.example.com")
	m.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "avatars/u1/a.png"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	require.NoError(t, s.Delete(context.Background(), "https://cdn.example.com/avatars/u1/a.png"))
	require.NoError(t, s.Delete(context.Background(), "https://elsewhere.example.com/a.png"))
	require.NoError(t, s.Delete(context.Background(), ""))
	m.AssertExpectations(t)
}
