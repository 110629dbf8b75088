package client

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Credentials is the durable client-side state: exactly two entries,
// written and cleared together.
type Credentials struct {
	AccessToken string `toml:"access_token"`
	UserRole    string `toml:"user_role"`
}

func (c Credentials) IsEmpty() bool {
	return c.AccessToken == "" && c.UserRole == ""
}

// CredentialStore persists Credentials as a TOML file under the user config
// dir. Token and role hint always move as a pair: Save writes both
// atomically, Clear removes both.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// DefaultCredentialPath resolves to <user-config-dir>/ajira/credentials.toml.
func DefaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving user config dir")
	}
	return filepath.Join(dir, "ajira", "credentials.toml"), nil
}

// Load reads the stored credentials; a missing file yields empty
// credentials, not an error.
func (cs *CredentialStore) Load() (Credentials, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	var creds Credentials
	if _, err := toml.DecodeFile(cs.path, &creds); err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, errors.Wrap(err, "decoding credential file")
	}
	return creds, nil
}

// Save persists the token/role pair atomically: written to a temp file in
// the same dir, then renamed over the target.
func (cs *CredentialStore) Save(creds Credentials) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	dir := filepath.Dir(cs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "creating credential dir")
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.toml")
	if err != nil {
		return errors.Wrap(err, "creating temp credential file")
	}
	defer os.Remove(tmp.Name())

	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "restricting credential file permissions")
	}
	if err = toml.NewEncoder(tmp).Encode(creds); err != nil {
		tmp.Close()
		return errors.Wrap(err, "encoding credentials")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp credential file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), cs.path), "replacing credential file")
}

// Clear removes the credential file; clearing an already-clear store is a
// no-op.
func (cs *CredentialStore) Clear() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := os.Remove(cs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing credential file")
	}
	return nil
}

// HasToken reports whether a persisted token exists.
func (cs *CredentialStore) HasToken() bool {
	creds, err := cs.Load()
	return err == nil && creds.AccessToken != ""
}
