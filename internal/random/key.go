// Package random provides splittable pseudo-random keys.
//
// A Key is an immutable value. Instead of advancing hidden generator state,
// callers split a key into children and hand each child to exactly one
// consumer:
//
//	root := random.NewKey(0)
//	wKey, bKey := root.Split()
//	w := distuv.Normal{Mu: 0, Sigma: 1, Src: wKey.Source()}
//
// The same key always splits into the same children, so any computation
// driven only by keys is reproducible from its root seed.
package random

import "fmt"

const (
	golden    = 0x9e3779b97f4a7c15
	splitSalt = 0x632be59bd9b4e019
	foldSalt  = 0x85157af5e4d3f1a9
)

// Key is an opaque, splittable randomness token.
//
// Keys are comparable; two keys are equal only if they will produce identical
// streams and identical splits.
type Key struct {
	hi, lo uint64
}

// NewKey creates a root key from an integer seed.
func NewKey(seed uint64) Key {
	return Key{hi: 0, lo: seed}
}

// Split derives two independent child keys.
//
// By convention the first child is consumed immediately and the second one is
// carried forward as the continuation key.
func (k Key) Split() (Key, Key) {
	return k.child(0), k.child(1)
}

// SplitN derives n independent child keys.
func (k Key) SplitN(n int) []Key {
	if n < 0 {
		panic(fmt.Sprintf("random: SplitN with negative count %d", n))
	}
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = k.child(uint64(i))
	}
	return keys
}

// FoldIn derives a key bound to data, e.g. a step counter.
func (k Key) FoldIn(data uint64) Key {
	hi := mix64(k.hi ^ mix64(data^foldSalt))
	return Key{hi: hi, lo: mix64(k.lo + hi + golden)}
}

// Source returns a fresh generator whose stream is determined by k.
//
// The returned value satisfies the rand.Source interfaces expected by
// gonum's distuv distributions.
func (k Key) Source() *Source {
	s := &Source{}
	s.Seed(mix64(k.hi^splitSalt) ^ mix64(k.lo))
	return s
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("Key(%016x%016x)", k.hi, k.lo)
}

func (k Key) child(i uint64) Key {
	hi := mix64(k.hi ^ mix64(k.lo^((i+1)*golden)))
	lo := mix64(hi ^ k.lo ^ splitSalt ^ i)
	return Key{hi: hi, lo: lo}
}

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
