package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ghuser/possystem/pkg/config"
)

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"explicit public url", config.Config{S3PublicURL: "https://cdn.example.com/", S3Bucket: "b"}, "https://cdn.example.com"},
		{"minio endpoint", config.Config{S3Endpoint: "http://localhost:9000", S3Bucket: "pos-products"}, "http://localhost:9000/pos-products"},
		{"aws", config.Config{S3Bucket: "pos-products", S3Region: "eu-west-1"}, "https://pos-products.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicBaseURL(&tt.cfg); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewObjectStore_RequiresBucket(t *testing.T) {
	if _, err := NewObjectStore(context.Background(), &config.Config{S3Region: "us-east-1"}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestUploadImage_RejectsBeforeUpload(t *testing.T) {
	s := &ObjectStore{bucket: "b", baseURL: "http://localhost:9000/b"}

	_, err := s.UploadImage(context.Background(), "products", "application/pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage for pdf, got %v", err)
	}

	big := strings.NewReader(strings.Repeat("x", MaxImageSize+1))
	_, err = s.UploadImage(context.Background(), "products", "image/png", big)
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage for oversized image, got %v", err)
	}
}

func TestURL(t *testing.T) {
	s := &ObjectStore{baseURL: "http://localhost:9000/b"}
	if got := s.URL("/products/a.png"); got != "http://localhost:9000/b/products/a.png" {
		t.Fatalf("unexpected url %q", got)
	}
}
