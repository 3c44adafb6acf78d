package models

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
)

func TestLookup(t *testing.T) {
	m, ok := Lookup("base.en")
	if !ok {
		t.Fatal("expected base.en in catalog")
	}
	if m.FileName != "ggml-base.en.bin" {
		t.Errorf("unexpected file name %q", m.FileName)
	}
	if m.URL == "" {
		t.Error("expected URL to be populated")
	}
	if _, ok := Lookup("nonexistent"); ok {
		t.Error("expected miss for unknown model")
	}
}

func TestEnsureDownloadsOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("model-bytes"))
	}))
	defer srv.Close()

	orig := baseURL
	baseURL = srv.URL + "/"
	defer func() { baseURL = orig }()

	dir := t.TempDir()
	path, err := Ensure(context.Background(), dir, "tiny")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading model: %v", err)
	}
	if string(data) != "model-bytes" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := Ensure(context.Background(), dir, "tiny"); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected 1 download, got %d", hits)
	}
}

func TestEnsureUnknownModel(t *testing.T) {
	var de *DownloadError
	if _, err := Ensure(context.Background(), t.TempDir(), "bogus"); !errors.As(err, &de) {
		t.Errorf("expected DownloadError, got %v", err)
	}
}

func TestEnsureServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	orig := baseURL
	baseURL = srv.URL + "/"
	defer func() { baseURL = orig }()

	dir := t.TempDir()
	if _, err := Ensure(context.Background(), dir, "tiny"); err == nil {
		t.Fatal("expected error for 403 response")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading models dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no leftover files, found %d", len(entries))
	}
}
