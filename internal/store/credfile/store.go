// Package credfile implements the durable credential store: a single
// encrypted file holding the bearer token, refresh token and customer id,
// plus auxiliary keys (pending login id, theme preference).
//
// It is the localStorage of the portal client: it survives process
// restarts and is shared by every terminal of the same user. Because it
// holds a live bearer token it is encrypted at rest with XChaCha20-Poly1305
// under a key derived (scrypt) from a per-install secret file.
package credfile

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/tub-bank/portal-client-go/internal/domain"
)

const (
	dirMode  = 0o700
	fileMode = 0o600

	secretFile = "secret"
	credsFile  = "credentials"

	saltLen = 16
)

var magic = []byte("TUBCRED1")

// Store is the file-backed credential store.
type Store struct {
	dir string
	mu  sync.Mutex
	key []byte // derived cipher key, cached after first derivation
}

// New opens (or initializes) the store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	s := &Store{dir: filepath.Clean(dir)}
	if _, err := s.installSecret(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes token, refresh token and customer id as one transaction. The
// encrypted file is replaced atomically, so a reader never observes a token
// without its owning customer id.
func (s *Store) Save(accessToken, refreshToken, customerID string) error {
	if accessToken != "" && customerID == "" {
		return &domain.ErrValidation{Field: "customerId", Message: "a token is only stored together with its customer id"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	data[domain.KeyAuthToken] = accessToken
	if refreshToken != "" {
		data[domain.KeyRefreshToken] = refreshToken
	} else {
		delete(data, domain.KeyRefreshToken)
	}
	data[domain.KeyCustomerID] = customerID
	// A committed credential supersedes any pending login.
	delete(data, domain.KeyPendingID)

	return s.write(data)
}

// AuthHeaders returns the outgoing authorization header set. An absent
// token yields an empty map, never an error.
func (s *Store) AuthHeaders() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	headers := map[string]string{}
	if tok := s.load()[domain.KeyAuthToken]; tok != "" {
		headers["Authorization"] = "Bearer " + tok
	}
	return headers
}

// CustomerID returns the stored customer id, or "" when absent.
func (s *Store) CustomerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[domain.KeyCustomerID]
}

// Get returns the value stored under key, or "".
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[key]
}

// Put stores a single auxiliary value under key.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	if value == "" {
		delete(data, key)
	} else {
		data[key] = value
	}
	return s.write(data)
}

// Clear removes every stored field. Used only by logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, credsFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// load reads and decrypts the credential file. Any failure (missing file,
// truncation, wrong key) reads as an empty store: absence of credentials is
// a normal, representable state.
func (s *Store) load() map[string]string {
	data := map[string]string{}

	raw, err := os.ReadFile(filepath.Join(s.dir, credsFile))
	if err != nil {
		return data
	}

	key, err := s.installSecret()
	if err != nil {
		return data
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return data
	}

	minLen := len(magic) + saltLen + aead.NonceSize()
	if len(raw) < minLen || string(raw[:len(magic)]) != string(magic) {
		return data
	}
	// Salt sits between magic and nonce; it already went into the key via
	// installSecret, so only the nonce and ciphertext are consumed here.
	nonce := raw[len(magic)+saltLen : minLen]
	plaintext, err := aead.Open(nil, nonce, raw[minLen:], nil)
	if err != nil {
		return data
	}

	_ = json.Unmarshal(plaintext, &data)
	return data
}

func (s *Store) write(data map[string]string) error {
	key, err := s.installSecret()
	if err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+saltLen+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, s.salt()...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)

	// Write-then-rename so a crash never leaves a half-written file.
	path := filepath.Join(s.dir, credsFile)
	tmp, err := os.CreateTemp(s.dir, credsFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}

// installSecret loads the per-install secret, creating it on first use, and
// derives the cipher key from it. The derivation is deliberately slow
// (scrypt), so the result is cached for the life of the process.
func (s *Store) installSecret() ([]byte, error) {
	if s.key != nil {
		return s.key, nil
	}

	path := filepath.Join(s.dir, secretFile)

	secret, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate install secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(buf))
		if err := os.WriteFile(path, secret, fileMode); err != nil {
			return nil, fmt.Errorf("write install secret: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read install secret: %w", err)
	}

	key, err := scrypt.Key(secret, s.salt(), 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	s.key = key
	return key, nil
}

// salt is fixed per store directory: the derivation secret is already
// random and per-install, the salt only separates key domains.
func (s *Store) salt() []byte {
	sum := make([]byte, saltLen)
	copy(sum, "tub-portal-creds")
	return sum
}
