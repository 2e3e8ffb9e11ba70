package bccsp

import (
	"errors"
	"fmt"
	"hash"
	"reflect"

	"github.com/11090815/x509cert/common/hlogging"
	"github.com/11090815/x509cert/vars"
)

var logger = hlogging.MustGetLogger("bccsp")

type CSP struct {
	KeyImporters map[reflect.Type]KeyImporter
	Hashers      map[reflect.Type]Hasher
}

func NewCSP() *CSP {
	return &CSP{
		KeyImporters: make(map[reflect.Type]KeyImporter),
		Hashers:      make(map[reflect.Type]Hasher),
	}
}

func (csp *CSP) KeyImport(raw interface{}, opts KeyImportOpts) (key Key, err error) {
	if opts == nil {
		return nil, errors.New("if you want to import a key, you should provide non-nil option")
	}

	// 根据选项的种类选择密钥导入器。
	importer, found := csp.KeyImporters[reflect.TypeOf(opts)]
	if !found {
		return nil, fmt.Errorf("no importer for option [%T]", opts)
	}
	key, err = importer.KeyImport(raw, opts)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Imported %s key with option [%T].", key.Algorithm(), opts)
	return key, nil
}

func (csp *CSP) Hash(msg []byte, opts HashOpts) (digest []byte, err error) {
	if opts == nil {
		return nil, errors.New("if you want to get the digest of some message, you should provide a non-nil option")
	}

	// 根据选项的种类选择 hasher。
	hasher, found := csp.Hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, fmt.Errorf("no hasher for option [%T]", opts)
	}

	return hasher.Hash(msg, opts)
}

func (csp *CSP) GetHash(opts HashOpts) (h hash.Hash, err error) {
	if opts == nil {
		return nil, errors.New("if you want to get a hash function, you should provide a non-nil option")
	}

	// 根据选项的种类选择 hasher。
	hasher, found := csp.Hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, fmt.Errorf("no hasher for option [%T]", opts)
	}

	return hasher.GetHash(opts)
}

// AddWrapper 重新注册 KeyImporter 或 Hasher。
func (csp *CSP) AddWrapper(typ reflect.Type, wrapper interface{}) error {
	if typ == nil {
		return errors.New("the given type shouldn't be nil")
	}
	if wrapper == nil {
		return errors.New("the given wrapper shouldn't be nil")
	}

	switch wrapperType := wrapper.(type) {
	case KeyImporter:
		csp.KeyImporters[typ] = wrapperType
	case Hasher:
		csp.Hashers[typ] = wrapperType
	default:
		return fmt.Errorf("invalid wrapper, want [KeyImporter Hasher], but got [%T]", wrapper)
	}
	return nil
}

func errUnknownHash(name string) error {
	return vars.ErrorGettingHashOption{Reason: fmt.Sprintf("hash function [%s] is not supported", name)}
}
