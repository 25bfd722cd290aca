package vars

// Merge merges src into dst, with src winning on collisions. Nested trees
// merge recursively key by key; scalars and sequences replace wholesale. The
// destination is mutated and returned for chaining.
func Merge(dst, src Tree) Tree {
	if dst == nil {
		dst = Tree{}
	}
	for key, incoming := range src {
		if incomingTree, ok := incoming.(Tree); ok {
			if existingTree, ok := dst[key].(Tree); ok {
				dst[key] = Merge(existingTree, incomingTree)
				continue
			}
		}
		dst[key] = cloneValue(incoming)
	}
	return dst
}
