package bccsp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"reflect"
)

func NewBCCSP() BCCSP {
	csp := NewCSP()

	// 设置 Hasher。
	csp.AddWrapper(reflect.TypeOf(&SHA1Opts{}), &hasher{hash: sha1.New})
	csp.AddWrapper(reflect.TypeOf(&SHA256Opts{}), &hasher{hash: sha256.New})
	csp.AddWrapper(reflect.TypeOf(&SHA384Opts{}), &hasher{hash: sha512.New384})

	// 设置密钥导入器 KeyImporter。
	csp.AddWrapper(reflect.TypeOf(&PKIXPublicKeyImportOpts{}), &pkixPublicKeyImporter{})

	return csp
}

var defaultCSP = NewBCCSP()

// Default 返回进程内共享的 BCCSP 实例，它是无状态的，可以被并发使用。
func Default() BCCSP {
	return defaultCSP
}
