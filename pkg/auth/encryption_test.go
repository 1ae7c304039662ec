package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

var testMasterKey = []byte("This is a string that is 32 char")

func TestEncrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	payload, err := Encrypt("private-encrypted-foo", []byte(`{"message":"hello"}`), testMasterKey)
	c.Assert(err, qt.IsNil)

	var p EncryptedPayload
	c.Assert(json.Unmarshal([]byte(payload), &p), qt.IsNil)
	c.Assert(p.Nonce, qt.Not(qt.Equals), "")
	c.Assert(p.Ciphertext, qt.Not(qt.Equals), "")

	data, err := Decrypt("private-encrypted-foo", payload, testMasterKey)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `{"message":"hello"}`)

	_, err = Decrypt("private-encrypted-bar", payload, testMasterKey)
	c.Assert(errors.Is(err, ErrCryptoFailure), qt.IsTrue, qt.Commentf("another channel's secret must not open the payload"))
}

func TestEncrypt_FixedNonce(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	nonce := bytes.Repeat([]byte{7}, nonceSize)
	a, err := encrypt(bytes.NewReader(nonce), "private-encrypted-foo", []byte("data"), testMasterKey)
	c.Assert(err, qt.IsNil)
	b, err := encrypt(bytes.NewReader(nonce), "private-encrypted-foo", []byte("data"), testMasterKey)
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.Equals, b)

	var p EncryptedPayload
	c.Assert(json.Unmarshal([]byte(a), &p), qt.IsNil)
	c.Assert(p.Nonce, qt.Equals, base64.StdEncoding.EncodeToString(nonce))

	_, err = encrypt(bytes.NewReader(nil), "private-encrypted-foo", []byte("data"), testMasterKey)
	c.Assert(errors.Is(err, ErrCryptoFailure), qt.IsTrue)
}

func TestParseMasterKey(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	key, err := ParseMasterKey(base64.StdEncoding.EncodeToString(testMasterKey))
	c.Assert(err, qt.IsNil)
	c.Assert(key, qt.DeepEquals, testMasterKey)

	_, err = ParseMasterKey("not base64!")
	c.Assert(errors.Is(err, ErrConfiguration), qt.IsTrue)

	_, err = ParseMasterKey(base64.StdEncoding.EncodeToString([]byte("short")))
	c.Assert(errors.Is(err, ErrConfiguration), qt.IsTrue)
}

func TestDecrypt_Malformed(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	for _, payload := range []string{`nope`, `{"nonce":"!!","ciphertext":""}`, `{"nonce":"AAAA","ciphertext":""}`} {
		_, err := Decrypt("private-encrypted-foo", payload, testMasterKey)
		c.Assert(errors.Is(err, ErrInvalidArgument), qt.IsTrue, qt.Commentf("payload %s: %v", payload, err))
	}
}
