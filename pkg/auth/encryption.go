package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// MasterKeySize is the required length of an encryption master key.
const MasterKeySize = 32

const nonceSize = 24

// EncryptedPayload is the event data sent on an encrypted channel.
type EncryptedPayload struct {
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// ParseMasterKey decodes a base64 encryption master key.
func ParseMasterKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption master key is not valid base64", ErrConfiguration)
	}
	if len(key) != MasterKeySize {
		return nil, fmt.Errorf("%w: encryption master key must be %d bytes, got %d", ErrConfiguration, MasterKeySize, len(key))
	}
	return key, nil
}

// SharedSecret derives the per-channel key clients use to decrypt events.
func SharedSecret(channel string, masterKey []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(channel))
	h.Write(masterKey)

	var secret [32]byte
	copy(secret[:], h.Sum(nil))
	return secret
}

// Encrypt seals data for channel and returns the serialized EncryptedPayload.
func Encrypt(channel string, data, masterKey []byte) (string, error) {
	return encrypt(rand.Reader, channel, data, masterKey)
}

func encrypt(random io.Reader, channel string, data, masterKey []byte) (string, error) {
	if len(masterKey) != MasterKeySize {
		return "", fmt.Errorf("%w: encryption master key must be %d bytes", ErrConfiguration, MasterKeySize)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(random, nonce[:]); err != nil {
		return "", fmt.Errorf("%w: unable to generate nonce: %w", ErrCryptoFailure, err)
	}
	secret := SharedSecret(channel, masterKey)
	sealed := secretbox.Seal(nil, data, &nonce, &secret)

	payload, err := json.Marshal(&EncryptedPayload{
		Nonce:      base64.StdEncoding.EncodeToString(nonce[:]),
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
	})
	if err != nil {
		return "", fmt.Errorf("unable to serialize encrypted payload: %w", err)
	}
	return string(payload), nil
}

// Decrypt opens a serialized EncryptedPayload sent on channel.
func Decrypt(channel, payload string, masterKey []byte) ([]byte, error) {
	var p EncryptedPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("%w: malformed encrypted payload: %v", ErrInvalidArgument, err)
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(p.Nonce)
	if err != nil || len(nonceBytes) != nonceSize {
		return nil, fmt.Errorf("%w: malformed nonce", ErrInvalidArgument)
	}
	sealed, err := base64.StdEncoding.DecodeString(p.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed ciphertext", ErrInvalidArgument)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)
	secret := SharedSecret(channel, masterKey)
	data, ok := secretbox.Open(nil, sealed, &nonce, &secret)
	if !ok {
		return nil, fmt.Errorf("%w: unable to decrypt payload", ErrCryptoFailure)
	}
	return data, nil
}
