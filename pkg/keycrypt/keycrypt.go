// Package keycrypt wraps the symmetric cipher the console uses to protect
// private-key fields before they leave the browser.
//
// The scheme is AES-128-CBC with PKCS#7 padding and lowercase hex output. The
// key is normalised to 16 bytes by NormalizeKey and the same bytes are used as
// the IV. Reusing the key as IV is a known weakness: identical plaintexts
// under the same key produce identical ciphertexts. It is kept for
// compatibility with ciphertexts produced by existing consoles.
package keycrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// KeySize is the normalised key width in bytes.
const KeySize = 16

const padChar = '0'

var (
	// ErrInvalidCiphertext is returned when the ciphertext is not valid hex or
	// is not a whole number of blocks.
	ErrInvalidCiphertext = errors.New("keycrypt: invalid ciphertext")
	// ErrInvalidPadding is returned when decrypted data carries malformed
	// PKCS#7 padding, usually because the key is wrong.
	ErrInvalidPadding = errors.New("keycrypt: invalid padding")
)

// NormalizeKey left-pads key with '0' up to KeySize bytes, or keeps its
// trailing KeySize bytes when it is longer. It is a fixed-width transform,
// not a key derivation function.
func NormalizeKey(key string) []byte {
	raw := []byte(key)
	switch {
	case len(raw) < KeySize:
		return append(bytes.Repeat([]byte{padChar}, KeySize-len(raw)), raw...)
	case len(raw) > KeySize:
		return append([]byte(nil), raw[len(raw)-KeySize:]...)
	default:
		return raw
	}
}

// Encrypt returns the hex encoded ciphertext of plaintext. An empty key is a
// defined no-op that returns an empty string.
func Encrypt(plaintext, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	pkey := NormalizeKey(key)
	block, err := aes.NewCipher(pkey)
	if err != nil {
		return "", fmt.Errorf("keycrypt: new cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, pkey).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. An empty ciphertext decrypts to an empty string.
func Decrypt(hexCiphertext, key string) (string, error) {
	hexCiphertext = strings.TrimSpace(hexCiphertext)
	if hexCiphertext == "" {
		return "", nil
	}
	data, err := hex.DecodeString(hexCiphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidCiphertext, len(data), aes.BlockSize)
	}

	pkey := NormalizeKey(key)
	block, err := aes.NewCipher(pkey)
	if err != nil {
		return "", fmt.Errorf("keycrypt: new cipher: %w", err)
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, pkey).CryptBlocks(out, data)

	plain, err := pkcs7Unpad(out, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padding], nil
}
