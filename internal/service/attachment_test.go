package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{}, nil
}

func uploadsPrefix() string {
	now := time.Now()
	return fmt.Sprintf("uploads/%d/%d/", now.Year(), int(now.Month()))
}

func TestStoreImageAttachment(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewAttachmentServiceWithUploader(uploader, "files", "https://cdn.example.dev/projects/abc/bucket")

	url, err := svc.Store(context.Background(), []byte("fake-jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q, want .jpg suffix for image mime", url)
	}

	wantPrefix := "https://cdn.example.dev/projects/abc/bucket/" + uploadsPrefix()
	if !strings.HasPrefix(url, wantPrefix) {
		t.Errorf("url = %q, want prefix %q", url, wantPrefix)
	}

	if len(uploader.inputs) != 1 {
		t.Fatalf("uploads = %d, want 1", len(uploader.inputs))
	}

	input := uploader.inputs[0]
	if *input.Bucket != "files" {
		t.Errorf("bucket = %q, want files", *input.Bucket)
	}
	if *input.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", *input.ContentType)
	}
	if !strings.HasSuffix(url, "/"+*input.Key) {
		t.Errorf("url %q does not end with uploaded key %q", url, *input.Key)
	}
}

func TestStoreNonImageFallsBackToVoice(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewAttachmentServiceWithUploader(uploader, "files", "https://cdn.example.dev")

	url, err := svc.Store(context.Background(), []byte("opus-frames"), "audio/ogg")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if !strings.HasSuffix(url, ".ogg") {
		t.Errorf("url = %q, want .ogg suffix for non-image mime", url)
	}
}

func TestStoreKeysAreUnique(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewAttachmentServiceWithUploader(uploader, "files", "https://cdn.example.dev")

	first, err := svc.Store(context.Background(), []byte("a"), "image/png")
	if err != nil {
		t.Fatalf("first Store() error = %v", err)
	}
	second, err := svc.Store(context.Background(), []byte("a"), "image/png")
	if err != nil {
		t.Fatalf("second Store() error = %v", err)
	}

	if first == second {
		t.Errorf("two uploads produced the same URL %q", first)
	}
}

func TestStoreUploadFailure(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("bucket unavailable")}
	svc := NewAttachmentServiceWithUploader(uploader, "files", "https://cdn.example.dev")

	_, err := svc.Store(context.Background(), []byte("payload"), "image/jpeg")
	if !errors.Is(err, ErrAttachmentStore) {
		t.Errorf("Store() error = %v, want ErrAttachmentStore", err)
	}
}

func TestStoreEmptyPayload(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewAttachmentServiceWithUploader(uploader, "files", "https://cdn.example.dev")

	_, err := svc.Store(context.Background(), nil, "image/jpeg")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Store() error = %v, want ErrValidation", err)
	}

	if len(uploader.inputs) != 0 {
		t.Errorf("upload attempted for empty payload")
	}
}
