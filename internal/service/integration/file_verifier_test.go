package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RubachokBoss/course-service/internal/models"
)

func TestObjectKey(t *testing.T) {
	v := &minioVerifier{endpoint: "minio:9000", bucket: "course-files"}

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{name: "object in bucket", url: "http://minio:9000/course-files/c1/intro.pdf", wantKey: "c1/intro.pdf", wantOK: true},
		{name: "host is case insensitive", url: "http://MINIO:9000/course-files/a.pdf", wantKey: "a.pdf", wantOK: true},
		{name: "other bucket", url: "http://minio:9000/avatars/a.png"},
		{name: "bucket root", url: "http://minio:9000/course-files/"},
		{name: "external host", url: "https://cdn.example.com/course-files/a.pdf"},
		{name: "garbage", url: "://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := v.objectKey(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestNoopImplementations(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewNoopVerifier().Verify(ctx, models.File{Name: "a", URL: "http://x/a"}))

	pub := NewNoopPublisher()
	assert.NoError(t, pub.Publish(ctx, models.RoutingKeyCourseDeleted, struct{}{}))
	assert.NoError(t, pub.Close())
}
