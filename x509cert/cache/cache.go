// Package cache 缓存解码完成的证书。Certificate 不可修改，同一份编码可以安全地共享同一个解码结果。
package cache

import (
	"errors"

	"github.com/11090815/x509cert/bccsp"
	"github.com/11090815/x509cert/common/hlogging"
	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/common/metrics/disabled"
	"github.com/11090815/x509cert/x509cert"
)

var logger = hlogging.MustGetLogger("x509cert.cache")

const DefaultSize = 100

var LookupsTotalOpts = metrics.CounterOpts{
	Namespace:    "x509cert",
	Subsystem:    "cache",
	Name:         "lookups_total",
	Help:         "The number of certificate cache lookups, labeled by result.",
	LabelNames:   []string{"result"},
	StatsdFormat: "%{#fqname}.%{result}",
}

// Decoder 是被缓存的解码器，*x509cert.Decoder 实现了该接口。
type Decoder interface {
	Decode(data []byte) (*x509cert.Certificate, error)
}

type CachedDecoder struct {
	Decoder
	csp     bccsp.BCCSP
	lookups metrics.Counter
	certs   *secondChanceCache
}

// New 创建一个最多缓存 size 张证书的解码器，解码失败的结果不会被缓存。
func New(decoder Decoder, size int, provider metrics.Provider) (*CachedDecoder, error) {
	logger.Debugf("Creating certificate cache with size %d.", size)
	if decoder == nil {
		return nil, errors.New("invalid given decoder, it should not be nil")
	}
	if size <= 0 {
		size = DefaultSize
	}
	if provider == nil {
		provider = &disabled.Provider{}
	}
	return &CachedDecoder{
		Decoder: decoder,
		csp:     bccsp.Default(),
		lookups: provider.NewCounter(LookupsTotalOpts),
		certs:   newSecondChanceCache(size),
	}, nil
}

func (cd *CachedDecoder) Decode(data []byte) (*x509cert.Certificate, error) {
	digest, err := cd.csp.Hash(data, &bccsp.SHA256Opts{})
	if err != nil {
		return nil, err
	}
	key := string(digest)

	if cert, ok := cd.certs.get(key); ok {
		cd.lookups.With("result", "hit").Add(1)
		return cert, nil
	}
	cd.lookups.With("result", "miss").Add(1)

	cert, err := cd.Decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	cd.certs.add(key, cert)
	return cert, nil
}

func (cd *CachedDecoder) Len() int {
	return cd.certs.len()
}

// Purge 清空缓存。
func (cd *CachedDecoder) Purge() {
	logger.Debugf("Purging certificate cache.")
	cd.certs.reset()
}
