// Package crypto seals provider API keys at rest with AES-GCM under the
// process master key.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

func gcmFor(masterKey string) (cipher.AEAD, error) {
	if len(masterKey) < 32 {
		return nil, errors.New("MASTER_KEY must be at least 32 bytes")
	}
	block, err := aes.NewCipher([]byte(masterKey)[:32])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func Encrypt(masterKey, plaintext string) (string, error) {
	gcm, err := gcmFor(masterKey)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func Decrypt(masterKey, encoded string) (string, error) {
	gcm, err := gcmFor(masterKey)
	if err != nil {
		return "", err
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("invalid ciphertext")
	}
	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
