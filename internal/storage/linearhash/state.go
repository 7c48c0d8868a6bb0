package linearhash

import "fmt"

// splitState - The incremental rehash state of a linear hash table.
//
// Buckets [0, nextSplit) have already been split in the current round and are addressed with modulus
// 2*roundBase, buckets [nextSplit, roundBase) are still addressed with modulus roundBase, and buckets
// [roundBase, numBuckets) are the split images created so far this round. Hence numBuckets is always
// roundBase + nextSplit.
type splitState struct {
	roundBase  int64
	nextSplit  int64
	numBuckets int64
}

// newSplitState - Returns the state of a table freshly created with initialSize buckets
func newSplitState(initialSize int64) splitState {
	return splitState{roundBase: initialSize, nextSplit: 0, numBuckets: initialSize}
}

// validate - Checks the state invariants, used when a state is loaded from file
func (S splitState) validate() error {
	if S.roundBase < 1 {
		return fmt.Errorf("round base must be positive, got %d", S.roundBase)
	}
	if S.nextSplit < 0 || S.nextSplit >= S.roundBase {
		return fmt.Errorf("next split %d outside [0, %d)", S.nextSplit, S.roundBase)
	}
	if S.numBuckets != S.roundBase+S.nextSplit {
		return fmt.Errorf("number of buckets %d does not match round base %d plus next split %d", S.numBuckets, S.roundBase, S.nextSplit)
	}
	return nil
}

// home - Returns the one bucket a key with the given hash value lives in
func (S splitState) home(hashValue uint64) int64 {
	idx := int64(hashValue % uint64(S.roundBase))
	if idx < S.nextSplit {
		idx = int64(hashValue % uint64(2*S.roundBase))
	}
	return idx
}

// splitTarget - Returns the bucket to split next and the index of the bucket it will be split into
func (S splitState) splitTarget() (from, to int64) {
	return S.nextSplit, S.numBuckets
}

// expandedModulus - Returns the modulus used for buckets already split in this round
func (S splitState) expandedModulus() uint64 {
	return uint64(2 * S.roundBase)
}

// advance - Records that the bucket at nextSplit has been split. When the last bucket of the round has
// been split the round completes, the base doubles and nextSplit starts over from 0.
func (S *splitState) advance() (roundComplete bool) {
	S.numBuckets++
	S.nextSplit++
	if S.nextSplit == S.roundBase {
		S.roundBase = S.numBuckets
		S.nextSplit = 0
		roundComplete = true
	}
	return
}
