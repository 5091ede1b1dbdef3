package relq

// KeyFunc extracts a key from a row.
type KeyFunc[K comparable, V any] func(V) K

// GroupByKey groups rows by a key function. Batched relation queries return
// one flat result set with the owner key carried on every row; this regroups
// them per owner.
//
// Example:
//
//	rows, _ := run(compiler.BatchSelectRelation("User", owners, "pets", q))
//	byOwner := relq.GroupByKey(rows, func(r relq.Instance) any { return r[compiler.OwnerRefColumn] })
func GroupByKey[K comparable, V any](values []V, keyFn KeyFunc[K, V]) map[K][]V {
	result := make(map[K][]V)
	for _, v := range values {
		key := keyFn(v)
		result[key] = append(result[key], v)
	}
	return result
}

// OrderGroupsByKeys reorders grouped rows to match the order of requested
// keys. The result has one inner slice per key, empty when the key produced
// no rows.
func OrderGroupsByKeys[K comparable, V any](keys []K, groups map[K][]V) [][]V {
	result := make([][]V, len(keys))
	for i, key := range keys {
		result[i] = groups[key]
	}
	return result
}
