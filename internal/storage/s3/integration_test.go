//go:build integration

package s3

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/finboard/finboard/internal/storage"
)

// Exercises a real S3-compatible endpoint (MinIO locally). Configure with
// FINBOARD_TEST_S3_ENDPOINT, FINBOARD_TEST_S3_BUCKET,
// FINBOARD_TEST_S3_ACCESS_KEY and FINBOARD_TEST_S3_SECRET_KEY,
// then run with -tags integration.
func TestStoreRoundTripIntegration(t *testing.T) {
	endpoint := os.Getenv("FINBOARD_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("FINBOARD_TEST_S3_ENDPOINT is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := New(ctx, Config{
		Endpoint:         endpoint,
		Bucket:           envOr("FINBOARD_TEST_S3_BUCKET", "finboard-test"),
		AccessKeyID:      envOr("FINBOARD_TEST_S3_ACCESS_KEY", "minioadmin"),
		SecretAccessKey:  envOr("FINBOARD_TEST_S3_SECRET_KEY", "minioadmin"),
		Prefix:           "integration",
		AutoCreateBucket: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	key, err := storage.BuildExportFilePath("tenders", time.Now())
	if err != nil {
		t.Fatalf("BuildExportFilePath() error = %v", err)
	}
	payload := []byte("finboard-integration")

	if _, err := store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), storage.PutOptions{ContentType: "application/octet-stream"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	defer func() {
		if err := store.Delete(ctx, key); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
	}()

	reader, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}

	prefix, err := storage.ExportTablePrefix("tenders")
	if err != nil {
		t.Fatalf("ExportTablePrefix() error = %v", err)
	}
	objects, err := store.List(ctx, prefix)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	found := false
	for _, obj := range objects {
		if obj.Key == key {
			found = true
		}
	}
	if !found {
		t.Fatalf("uploaded key %q not returned by List", key)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
