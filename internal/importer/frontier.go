package importer

import "github.com/google/uuid"

// frontier holds the product id of the most recent node at each depth.
// Index i is depth i; the slice is truncated as the walk moves back up.
type frontier []uuid.UUID

// reset starts a new tree rooted at productID.
func (f *frontier) reset(productID uuid.UUID) {
	*f = append((*f)[:0], productID)
}

// parent returns the node one level above depth, if one is live.
func (f frontier) parent(depth int) (uuid.UUID, bool) {
	if depth <= 0 || depth-1 >= len(f) {
		return uuid.Nil, false
	}
	return f[depth-1], true
}

// push registers productID at depth and drops everything deeper. The caller
// has already checked that depth-1 is live, so depth <= len(f).
func (f *frontier) push(depth int, productID uuid.UUID) {
	*f = append((*f)[:depth], productID)
}
