package bccsp

import "hash"

type Key interface {
	// Bytes 在允许的情况下，将密钥转换为原始的字节切片形式，公钥返回 DER 编码的 SubjectPublicKeyInfo。
	Bytes() ([]byte, error)

	// SKI 返回该密钥的唯一标识符。
	SKI() []byte

	// Symmetric 用来标识该密钥是否是对称密钥，如果是的话，则返回 true，否则返回 false。
	Symmetric() bool

	// IsPrivate 用来标识该密钥是否是私钥，如果是的话，则返回 true，否则返回 false。
	IsPrivate() bool

	// PublicKey 返回非对称密钥中的公钥，如果该密钥是对称密钥，调用该方法会返回错误。
	PublicKey() (Key, error)

	// Algorithm 返回密钥所属的算法名，例如 "ECDSA"、"RSA"、"Ed25519"。
	Algorithm() string
}

// KeyImportOpts 决定了导入密钥时使用哪一个 KeyImporter。
type KeyImportOpts interface {
	Algorithm() string

	// Ephemeral 为 true 表示导入的密钥不会被持久化。
	Ephemeral() bool
}

// HashOpts 决定了计算摘要时使用哪一个 Hasher。
type HashOpts interface {
	Algorithm() string
}

type BCCSP interface {
	KeyImport(raw interface{}, opts KeyImportOpts) (Key, error)

	Hash(msg []byte, opts HashOpts) ([]byte, error)

	GetHash(opts HashOpts) (hash.Hash, error)
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

const (
	ECDSA   = "ECDSA"
	RSA     = "RSA"
	ED25519 = "Ed25519"
	PKIX    = "PKIX"
	SHA1    = "SHA1"
	SHA256  = "SHA256"
	SHA384  = "SHA384"
)

// PKIXPublicKeyImportOpts 用于导入 DER 编码的 SubjectPublicKeyInfo，支持 ECDSA、RSA 和 Ed25519 三种公钥。
type PKIXPublicKeyImportOpts struct {
	Temporary bool
}

func (opts *PKIXPublicKeyImportOpts) Algorithm() string {
	return PKIX
}

func (opts *PKIXPublicKeyImportOpts) Ephemeral() bool {
	return opts.Temporary
}

type SHA1Opts struct{}

func (opts *SHA1Opts) Algorithm() string {
	return SHA1
}

type SHA256Opts struct{}

func (opts *SHA256Opts) Algorithm() string {
	return SHA256
}

type SHA384Opts struct{}

func (opts *SHA384Opts) Algorithm() string {
	return SHA384
}

// GetHashOpt 根据算法名返回对应的 HashOpts。
func GetHashOpt(name string) (HashOpts, error) {
	switch name {
	case SHA1, "SHA-1":
		return &SHA1Opts{}, nil
	case SHA256, "SHA-256":
		return &SHA256Opts{}, nil
	case SHA384, "SHA-384":
		return &SHA384Opts{}, nil
	}
	return nil, errUnknownHash(name)
}
