package badgerfs

// Key namespaces. Entry records live under "e:" keyed by canonical absolute
// path, which makes subtree operations a prefix scan. File contents live
// under "b:" keyed by content ID.
const (
	entryPrefix = "e:"
	blobPrefix  = "b:"
)

func entryKey(canonical string) []byte {
	return []byte(entryPrefix + canonical)
}

func blobKey(id string) []byte {
	return []byte(blobPrefix + id)
}
