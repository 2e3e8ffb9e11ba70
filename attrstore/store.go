// Package attrstore 实现了一个以字符串为键、每个键可以对应多个有序值的事实库。
// 证书解码器把解析得到的信息写入 Store，之后所有的访问器都只从 Store 中读取。
package attrstore

import (
	"sort"

	"github.com/11090815/x509cert/vars"
)

type entry struct {
	key   string
	value Value
}

// Pair 是 SearchFor 返回的一条键值对。
type Pair struct {
	Key   string
	Value Value
}

// Store 中的值只能追加，不能覆盖。调用 Freeze 之后，Store 变为只读，可以被多个 goroutine 并发读取。
type Store struct {
	entries []entry
	index   map[string][]int
	frozen  bool
}

func New() *Store {
	return &Store{index: make(map[string][]int)}
}

func (s *Store) add(key string, v Value) error {
	if s.frozen {
		return vars.ErrorStoreFrozen{Key: key}
	}
	if s.index == nil {
		s.index = make(map[string][]int)
	}
	s.index[key] = append(s.index[key], len(s.entries))
	s.entries = append(s.entries, entry{key: key, value: v})
	return nil
}

func (s *Store) AddString(key, value string) error {
	return s.add(key, StringValue(value))
}

func (s *Store) AddUint(key string, value uint64) error {
	return s.add(key, UintValue(value))
}

func (s *Store) AddBytes(key string, value []byte) error {
	return s.add(key, BytesValue(value))
}

// AddPairs 按顺序追加若干键值对。
func (s *Store) AddPairs(pairs []Pair) error {
	for _, p := range pairs {
		if err := s.add(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// Freeze 使 Store 变为只读。
func (s *Store) Freeze() {
	s.frozen = true
}

func (s *Store) Frozen() bool {
	return s.frozen
}

func (s *Store) Has(key string) bool {
	return len(s.index[key]) > 0
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) values(key string) []Value {
	idx := s.index[key]
	vals := make([]Value, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, s.entries[i].value)
	}
	return vals
}

// Values 按插入顺序返回 key 对应的所有值。
func (s *Store) Values(key string) []Value {
	return s.values(key)
}

// Get 按插入顺序返回 key 对应的所有值的字符串形式，key 不存在时返回空切片。
func (s *Store) Get(key string) []string {
	idx := s.index[key]
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.entries[i].value.String())
	}
	return out
}

// Get1String 返回 key 对应的第一个值的字符串形式。
func (s *Store) Get1String(key string) (string, error) {
	idx := s.index[key]
	if len(idx) == 0 {
		return "", vars.ErrorNoValue{Key: key}
	}
	return s.entries[idx[0]].value.String(), nil
}

// Get1Uint 返回 key 对应的第一个值的整数形式，key 不存在时返回 def。
func (s *Store) Get1Uint(key string, def uint64) (uint64, error) {
	idx := s.index[key]
	if len(idx) == 0 {
		return def, nil
	}
	return s.entries[idx[0]].value.AsUint(key)
}

// Get1Bytes 返回 key 对应的第一个值的字节形式，key 不存在时返回 nil。
func (s *Store) Get1Bytes(key string) ([]byte, error) {
	idx := s.index[key]
	if len(idx) == 0 {
		return nil, nil
	}
	return s.entries[idx[0]].value.AsBytes(key)
}

// SearchFor 按插入顺序返回所有满足 pred 的键值对。
func (s *Store) SearchFor(pred func(key string, value Value) bool) []Pair {
	var out []Pair
	for _, e := range s.entries {
		if pred(e.key, e.value) {
			out = append(out, Pair{Key: e.key, Value: e.value})
		}
	}
	return out
}

// Keys 返回按字典序排列的所有键。
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.index))
	for k, idx := range s.index {
		if len(idx) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Equal 要求两个 Store 的键集合相同，并且每个键对应的值构成的多重集合相同，值的插入顺序不参与比较。
func (s *Store) Equal(other *Store) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Len() != other.Len() {
		return false
	}

	keys := s.Keys()
	otherKeys := other.Keys()
	if len(keys) != len(otherKeys) {
		return false
	}
	for i := range keys {
		if keys[i] != otherKeys[i] {
			return false
		}
		if !sameMultiset(s.values(keys[i]), other.values(keys[i])) {
			return false
		}
	}
	return true
}

func sameMultiset(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	ak := make([]string, len(a))
	bk := make([]string, len(b))
	for i := range a {
		ak[i] = a[i].sortKey()
		bk[i] = b[i].sortKey()
	}
	sort.Strings(ak)
	sort.Strings(bk)
	for i := range ak {
		if ak[i] != bk[i] {
			return false
		}
	}
	return true
}
