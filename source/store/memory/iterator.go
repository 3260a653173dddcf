package memory

import (
	"sort"

	"github.com/skillstack/searchsync/source"
)

// Static and compile-time check to ensure idIterator implements
// source.IDIterator.
var _ source.IDIterator = (*idIterator)(nil)

// idIterator is a source.IDIterator implementation over a snapshot of
// sorted row ids.
type idIterator struct {
	ids     []int64
	currIdx int
}

func newIDIterator(ids []int64) *idIterator {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &idIterator{ids: ids}
}

// Next advances to the next id, returns false when no more ids are
// available.
func (i *idIterator) Next() bool {
	if i.currIdx >= len(i.ids) {
		return false
	}

	i.currIdx++

	return true
}

// ID returns the current primary key.
func (i *idIterator) ID() int64 {
	return i.ids[i.currIdx-1]
}

// Error returns the last error encountered by the iterator.
func (i *idIterator) Error() error {
	return nil
}

// Close releases any resources allocated to the iterator.
func (i *idIterator) Close() error {
	return nil
}
