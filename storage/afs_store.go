package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/constrogen/procure"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// AfsStore persists each key as a JSON document under a base URL. A file://
// base serves as the browser-local persistent store; mem:// backs tests.
type AfsStore struct {
	fs      afs.Service
	baseURL string
	logger  procure.Logger
}

// NewAfsStore creates a store rooted at baseURL.
func NewAfsStore(baseURL string, opts ...Option) *AfsStore {
	options := newOptions(opts)
	return &AfsStore{
		fs:      afs.New(),
		baseURL: baseURL,
		logger:  options.logger,
	}
}

func (s *AfsStore) documentURL(key string) string {
	return url.Join(s.baseURL, key+".json")
}

// Set serializes value and writes it as a document.
func (s *AfsStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return newError("set", key, err)
	}
	if err = s.fs.Upload(ctx, s.documentURL(key), 0o644, bytes.NewReader(data)); err != nil {
		return newError("set", key, err)
	}
	return nil
}

// Get loads the document for key into target.
func (s *AfsStore) Get(ctx context.Context, key string, target interface{}) bool {
	URL := s.documentURL(key)
	if ok, _ := s.fs.Exists(ctx, URL); !ok {
		return false
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		s.logger.Errorf("storage get %q: %v", key, err)
		return false
	}
	if err = json.Unmarshal(data, target); err != nil {
		s.logger.Errorf("storage get %q: %v", key, err)
		return false
	}
	return true
}

// Remove deletes the document for key.
func (s *AfsStore) Remove(ctx context.Context, key string) error {
	URL := s.documentURL(key)
	if ok, _ := s.fs.Exists(ctx, URL); !ok {
		return nil
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return newError("remove", key, err)
	}
	return nil
}

// IsAvailable probes the backend with a disposable write and delete.
func (s *AfsStore) IsAvailable(ctx context.Context) bool {
	URL := s.documentURL(probeKey)
	if err := s.fs.Upload(ctx, URL, 0o644, strings.NewReader("probe")); err != nil {
		return false
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return false
	}
	return true
}
