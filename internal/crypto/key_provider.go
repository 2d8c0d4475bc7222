// Package crypto implements the symmetric cipher used for save files.
//
// Key material and the block mode reproduce the legacy save format: the key
// and IV are derived once from static seeds, and the IV is reused for every
// encryption. Identical plaintexts therefore produce identical ciphertexts.
// This is a known defect kept for compatibility: save files written by
// older builds must stay readable. New key schemes go through KeyProvider
// so call sites never touch the material directly.
package crypto

import (
	"crypto/md5"
	"crypto/sha256"
)

// Do not change: existing save files are keyed off these seeds.
const (
	legacyKeySeed = "PuzzleVault_SaveKey_2021_v1"
	legacyIVSeed  = "PuzzleVault_IVSalt_2021"
)

// KeyProvider supplies the cipher key and IV.
type KeyProvider interface {
	Key() []byte // 32 bytes (AES-256)
	IV() []byte  // 16 bytes (one block)
}

// StaticKeyProvider derives fixed key material from the legacy seeds.
type StaticKeyProvider struct {
	key [32]byte
	iv  [16]byte
}

func NewStaticKeyProvider() KeyProvider {
	return &StaticKeyProvider{
		key: sha256.Sum256([]byte(legacyKeySeed)),
		iv:  md5.Sum([]byte(legacyIVSeed)),
	}
}

func (p *StaticKeyProvider) Key() []byte {
	return p.key[:]
}

func (p *StaticKeyProvider) IV() []byte {
	return p.iv[:]
}
