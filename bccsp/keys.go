package bccsp

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// PublicKeyToPEM 把公钥编码成 "PUBLIC KEY" 类型的 PEM 块。
func PublicKeyToPEM(key Key) ([]byte, error) {
	if key == nil {
		return nil, errors.New("invalid public key: [it shouldn't be nil]")
	}
	if key.IsPrivate() || key.Symmetric() {
		return nil, fmt.Errorf("invalid key type: [it must be an asymmetric public key, but got %s]", key.Algorithm())
	}

	encoded, err := key.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed marshaling %s public key: [%s]", key.Algorithm(), err.Error())
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: encoded}), nil
}

func pemToPublicKey(raw []byte) (interface{}, error) {
	if len(raw) == 0 {
		return nil, errors.New("invalid PEM: [the content is empty]")
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("failed decoding PEM to public key")
	}

	return derToPublicKey(block.Bytes)
}

func derToPublicKey(raw []byte) (pub interface{}, err error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("invalid DER: [the content is empty]")
	}

	return x509.ParsePKIXPublicKey(raw)
}

func ski(raw []byte) []byte {
	hash := sha256.New()
	hash.Write(raw)
	return hash.Sum(nil)
}

/*** 🐋 ***/

type ecdsaPublicKey struct {
	publicKey *ecdsa.PublicKey
}

func (key *ecdsaPublicKey) Bytes() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(key.publicKey)
}

func (key *ecdsaPublicKey) SKI() []byte {
	if key.publicKey == nil {
		return nil
	}
	return ski(elliptic.Marshal(key.publicKey.Curve, key.publicKey.X, key.publicKey.Y))
}

func (*ecdsaPublicKey) Symmetric() bool {
	return false
}

func (*ecdsaPublicKey) IsPrivate() bool {
	return false
}

func (key *ecdsaPublicKey) PublicKey() (Key, error) {
	return key, nil
}

func (*ecdsaPublicKey) Algorithm() string {
	return ECDSA
}

/*** 🐋 ***/

type rsaPublicKey struct {
	publicKey *rsa.PublicKey
}

func (key *rsaPublicKey) Bytes() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(key.publicKey)
}

func (key *rsaPublicKey) SKI() []byte {
	if key.publicKey == nil {
		return nil
	}
	return ski(x509.MarshalPKCS1PublicKey(key.publicKey))
}

func (*rsaPublicKey) Symmetric() bool {
	return false
}

func (*rsaPublicKey) IsPrivate() bool {
	return false
}

func (key *rsaPublicKey) PublicKey() (Key, error) {
	return key, nil
}

func (*rsaPublicKey) Algorithm() string {
	return RSA
}

/*** 🐋 ***/

type ed25519PublicKey struct {
	publicKey ed25519.PublicKey
}

func (key *ed25519PublicKey) Bytes() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(key.publicKey)
}

func (key *ed25519PublicKey) SKI() []byte {
	if len(key.publicKey) == 0 {
		return nil
	}
	return ski(key.publicKey)
}

func (*ed25519PublicKey) Symmetric() bool {
	return false
}

func (*ed25519PublicKey) IsPrivate() bool {
	return false
}

func (key *ed25519PublicKey) PublicKey() (Key, error) {
	return key, nil
}

func (*ed25519PublicKey) Algorithm() string {
	return ED25519
}
