package cache

import (
	"sync"
	"sync/atomic"

	"github.com/11090815/x509cert/x509cert"
)

// secondChanceCache 在淘汰对象之前会检查它的引用标志位。如果对象被引用过，则清除引用位，让它像新对象一样
// 重新排到队尾；如果对象没有被引用过，则被淘汰。
type secondChanceCache struct {
	table    map[string]*cacheItem
	items    []*cacheItem
	position int
	mutex    sync.RWMutex
}

type cacheItem struct {
	key        string // 证书编码的 SHA-256 摘要
	cert       *x509cert.Certificate
	referenced int32
}

func newSecondChanceCache(cacheSize int) *secondChanceCache {
	return &secondChanceCache{
		position: 0,
		items:    make([]*cacheItem, cacheSize),
		table:    make(map[string]*cacheItem),
	}
}

func (scc *secondChanceCache) len() int {
	scc.mutex.RLock()
	defer scc.mutex.RUnlock()
	return len(scc.table)
}

func (scc *secondChanceCache) reset() {
	scc.mutex.Lock()
	defer scc.mutex.Unlock()
	scc.table = make(map[string]*cacheItem)
	scc.items = make([]*cacheItem, len(scc.items))
	scc.position = 0
}

func (scc *secondChanceCache) get(key string) (*x509cert.Certificate, bool) {
	scc.mutex.RLock()
	defer scc.mutex.RUnlock()

	item, ok := scc.table[key]
	if !ok {
		return nil, false
	}
	atomic.StoreInt32(&item.referenced, 1)
	return item.cert, true
}

func (scc *secondChanceCache) add(key string, cert *x509cert.Certificate) {
	scc.mutex.Lock()
	defer scc.mutex.Unlock()

	if old, ok := scc.table[key]; ok {
		old.cert = cert
		atomic.StoreInt32(&old.referenced, 1)
		return
	}

	var item = &cacheItem{
		key:  key,
		cert: cert,
	}

	size := len(scc.items)
	num := len(scc.table)
	if num < size {
		scc.table[key] = item
		scc.items[num] = item
		return
	}

	for {
		victim := scc.items[scc.position]
		if atomic.LoadInt32(&victim.referenced) == 0 {
			delete(scc.table, victim.key)
			scc.table[key] = item
			scc.items[scc.position] = item
			scc.position = (scc.position + 1) % size
			return
		}
		atomic.StoreInt32(&victim.referenced, 0)
		scc.position = (scc.position + 1) % size
	}
}
