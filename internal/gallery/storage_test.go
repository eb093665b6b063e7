package gallery

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockS3 struct {
	putInputs    []*s3.PutObjectInput
	deleteInputs []*s3.DeleteObjectInput
	putErr       error
	deleteErr    error
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.putInputs = append(m.putInputs, params)
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.deleteInputs = append(m.deleteInputs, params)
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageUpload(t *testing.T) {
	mock := &mockS3{}
	storage := NewS3Storage(mock, "clinic-gallery", "https://cdn.refineplasticsurgerytz.com/")

	url, storageName, err := storage.Upload(context.Background(), "before.jpg", "image/jpeg", bytes.NewReader([]byte("jpegdata")))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if len(mock.putInputs) != 1 {
		t.Fatalf("expected 1 PutObject call, got %d", len(mock.putInputs))
	}

	put := mock.putInputs[0]
	if *put.Bucket != "clinic-gallery" {
		t.Errorf("bucket = %q, want clinic-gallery", *put.Bucket)
	}
	if *put.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", *put.ContentType)
	}
	if *put.Key != storageName {
		t.Errorf("object key %q does not match returned storage name %q", *put.Key, storageName)
	}
	if !strings.HasPrefix(storageName, "gallery/") || !strings.HasSuffix(storageName, ".jpg") {
		t.Errorf("storage name %q should be under gallery/ and keep the extension", storageName)
	}
	if url != "https://cdn.refineplasticsurgerytz.com/"+storageName {
		t.Errorf("url = %q, want base + storage name", url)
	}

	body, _ := io.ReadAll(put.Body)
	if string(body) != "jpegdata" {
		t.Errorf("uploaded body = %q", body)
	}
}

func TestS3StorageUploadUniqueNames(t *testing.T) {
	mock := &mockS3{}
	storage := NewS3Storage(mock, "clinic-gallery", "https://cdn.example.com")

	_, first, err := storage.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := storage.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("two uploads of the same filename reused storage name %q", first)
	}
}

func TestS3StorageRemove(t *testing.T) {
	mock := &mockS3{}
	storage := NewS3Storage(mock, "clinic-gallery", "https://cdn.example.com")

	if err := storage.Remove(context.Background(), "gallery/123-abc.jpg"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(mock.deleteInputs) != 1 {
		t.Fatalf("expected 1 DeleteObject call, got %d", len(mock.deleteInputs))
	}
	if *mock.deleteInputs[0].Key != "gallery/123-abc.jpg" {
		t.Errorf("deleted key = %q", *mock.deleteInputs[0].Key)
	}
}
