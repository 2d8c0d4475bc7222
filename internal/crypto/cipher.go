package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"unicode/utf8"

	"gsd/internal/providers"
)

// ErrCryptoFailure is returned when a payload can neither be decrypted nor
// reinterpreted as plaintext.
var ErrCryptoFailure = errors.New("crypto failure")

type CipherInterface interface {
	Encrypt(plain []byte) []byte
	Decrypt(data []byte) ([]byte, error)
}

// CipherEngine encrypts and decrypts record payloads with AES-256-CBC.
//
// Both directions carry the legacy plaintext fallback: Encrypt degrades to
// returning the plaintext when the cipher cannot be set up, and Decrypt
// accepts unencrypted payloads written by such a degraded save. Load paths
// rely on this to read files from builds where encryption silently failed.
type CipherEngine struct {
	block  cipher.Block
	iv     []byte
	logger providers.Logger
}

func NewCipherEngine(keys KeyProvider, logger providers.Logger) CipherInterface {
	block, err := aes.NewCipher(keys.Key())
	if err != nil {
		logger.Errorf(providers.TypeApp, "Cipher init failed, falling back to plaintext storage: %s", err)
		return &CipherEngine{iv: keys.IV(), logger: logger}
	}
	return &CipherEngine{block: block, iv: keys.IV(), logger: logger}
}

// Encrypt returns the CBC ciphertext of plain, or plain itself when the
// cipher is unavailable.
func (c *CipherEngine) Encrypt(plain []byte) []byte {
	if c.block == nil {
		c.logger.Warnf(providers.TypeSave, "Encrypting disabled, writing plaintext payload")
		return plain
	}

	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return out
}

// Decrypt reverses Encrypt. Payloads that are not valid ciphertext are
// retried as plaintext before the operation is reported failed.
func (c *CipherEngine) Decrypt(data []byte) ([]byte, error) {
	if c.block != nil && len(data) > 0 && len(data)%aes.BlockSize == 0 {
		out := make([]byte, len(data))
		cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, data)
		if plain, ok := pkcs7Unpad(out, aes.BlockSize); ok {
			return plain, nil
		}
	}

	if looksLikePlaintext(data) {
		c.logger.Warnf(providers.TypeLoad, "Payload is not ciphertext, accepting as plaintext")
		return data, nil
	}
	return nil, ErrCryptoFailure
}

// looksLikePlaintext reports whether data is plausibly an unencrypted
// serialized record: valid UTF-8 starting with a JSON object or array.
func looksLikePlaintext(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return false
	}
	return utf8.Valid(data)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
