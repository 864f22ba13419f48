package storage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/constrogen/procure"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/scy"

	// registers the blowfish KMS so "blowfish://" cipher keys resolve
	_ "github.com/viant/scy/kms/blowfish"
)

// defaultCipherKey selects scy's default blowfish key when none is supplied.
const defaultCipherKey = "blowfish://default"

// ScyStore keeps blobs encrypted at rest. It is the counterpart of a secure
// device keystore for runtimes where a plain file store is not acceptable.
type ScyStore struct {
	secrets *scy.Service
	fs      afs.Service
	baseURL string
	cipher  string
	logger  procure.Logger
}

// NewScyStore creates an encrypted store rooted at baseURL. The cipher key
// follows scy's resource key format, e.g. "blowfish://default".
func NewScyStore(baseURL, cipherKey string, opts ...Option) *ScyStore {
	options := newOptions(opts)
	if cipherKey == "" {
		cipherKey = defaultCipherKey
	}
	return &ScyStore{
		secrets: scy.New(),
		fs:      afs.New(),
		baseURL: baseURL,
		cipher:  cipherKey,
		logger:  options.logger,
	}
}

func (s *ScyStore) secretURL(key string) string {
	return url.Join(s.baseURL, key+".enc")
}

// Set serializes value and stores it encrypted.
func (s *ScyStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return newError("set", key, err)
	}
	resource := scy.NewResource("", s.secretURL(key), s.cipher)
	secret := scy.NewSecret(string(data), resource)
	if err = s.secrets.Store(ctx, secret); err != nil {
		return newError("set", key, err)
	}
	return nil
}

// Get decrypts the secret stored under key into target.
func (s *ScyStore) Get(ctx context.Context, key string, target interface{}) bool {
	URL := s.secretURL(key)
	if ok, _ := s.fs.Exists(ctx, URL); !ok {
		return false
	}
	resource := scy.NewResource("", URL, s.cipher)
	secret, err := s.secrets.Load(ctx, resource)
	if err != nil {
		s.logger.Errorf("storage get %q: %v", key, err)
		return false
	}
	if err = json.Unmarshal([]byte(secret.String()), target); err != nil {
		s.logger.Errorf("storage get %q: %v", key, err)
		return false
	}
	return true
}

// Remove deletes the secret stored under key.
func (s *ScyStore) Remove(ctx context.Context, key string) error {
	URL := s.secretURL(key)
	if ok, _ := s.fs.Exists(ctx, URL); !ok {
		return nil
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return newError("remove", key, err)
	}
	return nil
}

// IsAvailable probes the backing location with a disposable write and delete.
func (s *ScyStore) IsAvailable(ctx context.Context) bool {
	URL := s.secretURL(probeKey)
	if err := s.fs.Upload(ctx, URL, 0o644, strings.NewReader("probe")); err != nil {
		return false
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return false
	}
	return true
}
