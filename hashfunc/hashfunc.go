package hashfunc

// HashAlgorithm - Interface that permits a caller of the linear hash handler to supply a custom key hash
// suited for its particular distribution of keys.
//
// The linear hash engine derives bucket numbers from the returned value by modulo of the current
// table size, so the low order bits of the result should be well distributed. The same algorithm
// must be given every time an existing dictionary is opened, otherwise records will not be found.
type HashAlgorithm interface {
	// HashFunc - Given key it returns a hash value
	HashFunc(key []byte) uint64
}
