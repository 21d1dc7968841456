// Package session holds the local session stores and the codec every store
// backend shares to turn a session into bytes and back.
package session

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// sealedMagic prefixes payloads encrypted with a passphrase.
var sealedMagic = []byte("SMMS1")

const (
	saltSize = 16
	scryptN  = 1 << 15
	scryptR  = 8
	scryptP  = 1
)

// Codec serialises sessions as JSON. With a passphrase the JSON is sealed
// with XChaCha20-Poly1305 under a scrypt-derived key.
type Codec struct {
	passphrase []byte
}

func NewCodec(passphrase string) Codec {
	if passphrase == "" {
		return Codec{}
	}
	return Codec{passphrase: []byte(passphrase)}
}

// Sealed reports whether Encode encrypts.
func (c Codec) Sealed() bool {
	return len(c.passphrase) > 0
}

func (c Codec) Encode(s *domain.Session) ([]byte, error) {
	plain, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if !c.Sealed() {
		return plain, nil
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("session salt: %w", err)
	}
	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("session nonce: %w", err)
	}

	out := make([]byte, 0, len(sealedMagic)+saltSize+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, sealedMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, sealedMagic), nil
}

// Decode returns domain.ErrCorruptSession for anything it cannot read back,
// including a sealed payload opened with the wrong passphrase.
func (c Codec) Decode(data []byte) (*domain.Session, error) {
	plain := data
	if bytes.HasPrefix(data, sealedMagic) {
		if !c.Sealed() {
			return nil, fmt.Errorf("%w: sealed session and no passphrase", domain.ErrCorruptSession)
		}
		var err error
		if plain, err = c.open(data[len(sealedMagic):]); err != nil {
			return nil, err
		}
	}

	var s domain.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return &s, nil
}

func (c Codec) open(data []byte) ([]byte, error) {
	if len(data) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: sealed payload too short", domain.ErrCorruptSession)
	}
	salt, rest := data[:saltSize], data[saltSize:]
	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, sealedMagic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return plain, nil
}

func (c Codec) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(c.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("session cipher: %w", err)
	}
	return aead, nil
}
