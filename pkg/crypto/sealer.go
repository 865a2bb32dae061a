// Package crypto seals ledger data at rest: AES-GCM encrypted and HMAC signed.
package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gtank/cryptopasta"
)

// KeyLength is the number of key characters used, longer keys are cut.
const KeyLength = 32

var (
	ErrKeyLength = fmt.Errorf("key too short, want at least %d chars", KeyLength)
	ErrSignature = errors.New("signature validation failed")
	ErrMalformed = errors.New("sealed data malformed")
)

var encoding = base64.RawURLEncoding

// NewRandomKey returns a random key suitable for NewSealer.
func NewRandomKey() (string, error) {
	key := &[33]byte{} // encodes to 44 chars
	_, err := io.ReadFull(rand.Reader, key[:])
	return encoding.EncodeToString(key[:]), err
}

// Sealer encrypts & signs with one pair of keys.
type Sealer struct {
	encryption *[KeyLength]byte
	signature  *[KeyLength]byte
}

func NewSealer(key, sig string) (*Sealer, error) {
	encryption, err := toKey(key)
	if err != nil {
		return nil, fmt.Errorf("encryption %w", err)
	}
	signature, err := toKey(sig)
	if err != nil {
		return nil, fmt.Errorf("signature %w", err)
	}
	return &Sealer{encryption: encryption, signature: signature}, nil
}

// Seal encrypts the plaintext, the result is "<ciphertext>.<hmac>" with
// both parts base64 encoded.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	ciphertext, err := cryptopasta.Encrypt(plaintext, s.encryption)
	if err != nil {
		return nil, err
	}
	mac := cryptopasta.GenerateHMAC(ciphertext, s.signature)

	out := make([]byte, 0, encoding.EncodedLen(len(ciphertext))+1+encoding.EncodedLen(len(mac)))
	out = append(out, encoding.EncodeToString(ciphertext)...)
	out = append(out, '.')
	out = append(out, encoding.EncodeToString(mac)...)
	return out, nil
}

// Open checks the signature of sealed data and decrypts it.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	front, back, ok := bytes.Cut(bytes.TrimSpace(sealed), []byte("."))
	if !ok {
		return nil, ErrMalformed
	}

	ciphertext, err := encoding.DecodeString(string(front))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	mac, err := encoding.DecodeString(string(back))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if !cryptopasta.CheckHMAC(ciphertext, mac, s.signature) {
		return nil, ErrSignature
	}
	return cryptopasta.Decrypt(ciphertext, s.encryption)
}

func toKey(s string) (*[KeyLength]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) < KeyLength {
		return nil, ErrKeyLength
	}
	key := &[KeyLength]byte{}
	copy(key[:], s)
	return key, nil
}
