package bccsp

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
)

type KeyImporter interface {
	KeyImport(raw interface{}, opts KeyImportOpts) (Key, error)
}

type pkixPublicKeyImporter struct{}

func (*pkixPublicKeyImporter) KeyImport(raw interface{}, opts KeyImportOpts) (Key, error) {
	der, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid pkix public key material, want bytes, but got [%T]", raw)
	}

	if len(der) == 0 {
		return nil, errors.New("invalid pkix public key material: [the content is empty]")
	}

	key, err := derToPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed converting pkix to public key: [%s]", err.Error())
	}

	switch pk := key.(type) {
	case *ecdsa.PublicKey:
		return &ecdsaPublicKey{publicKey: pk}, nil
	case *rsa.PublicKey:
		return &rsaPublicKey{publicKey: pk}, nil
	case ed25519.PublicKey:
		return &ed25519PublicKey{publicKey: pk}, nil
	default:
		return nil, fmt.Errorf("public key type not recognized, only support [*ecdsa.PublicKey *rsa.PublicKey ed25519.PublicKey], but got [%T]", pk)
	}
}
