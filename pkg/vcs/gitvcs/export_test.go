package gitvcs

// CachedBlobs reports how many blob contents the repository holds.
func (r *Repo) CachedBlobs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
