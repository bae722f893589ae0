package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// AESGCMNonceSize is the standard nonce size for GCM (12 bytes)
	AESGCMNonceSize = 12
	// KeySizeAES256 is the key size for AES-256 (32 bytes)
	KeySizeAES256 = 32
	// SaltSize is the HKDF salt size prepended to sealed blobs
	SaltSize = 16
)

var hkdfInfo = []byte("credential-seal-v1")

// Seal encrypts the credential under a wallet passphrase with
// HKDF-SHA256 + AES-256-GCM.
// Format: Salt (16 bytes) || Nonce (12 bytes) || Ciphertext (including tag)
func (c *Credential) Seal(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase is empty")
	}

	plaintext, err := c.Marshal()
	if err != nil {
		return nil, err
	}

	// 1. Fresh salt per seal, binding the derived key to this blob
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	// 2. Derive encryption key using HKDF-SHA256
	encKey, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	// 3. Encrypt using AES-256-GCM
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	nonce := make([]byte, AESGCMNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Use the salt as AAD to bind it to the ciphertext
	ciphertext := gcm.Seal(nil, nonce, plaintext, salt)

	result := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)

	return result, nil
}

// Open decrypts a blob produced by Seal.
func Open(sealed, passphrase []byte) (*Credential, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase is empty")
	}
	if len(sealed) < SaltSize+AESGCMNonceSize {
		return nil, errors.New("sealed credential too short")
	}

	salt := sealed[:SaltSize]
	nonce := sealed[SaltSize : SaltSize+AESGCMNonceSize]
	ciphertext := sealed[SaltSize+AESGCMNonceSize:]

	encKey, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, salt)
	if err != nil {
		return nil, errors.New("failed to decrypt credential (wrong passphrase or corrupt blob)")
	}

	return Unmarshal(plaintext)
}

func deriveKey(passphrase, salt []byte) ([]byte, error) {
	key := make([]byte, KeySizeAES256)
	kdf := hkdf.New(sha256.New, passphrase, salt, hkdfInfo)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
