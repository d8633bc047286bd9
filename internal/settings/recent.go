package settings

// DefaultRecentLimit bounds the recent-files list.
const DefaultRecentLimit = 20

const recentKey = "app.recentFiles"

// RecentFiles is the most-recently-used file list, most recent first,
// de-duplicated by canonical path and bounded. It reads from and
// writes through a Store.
type RecentFiles struct {
	store *Store
	limit int
}

// NewRecentFiles creates a recent-files list over store. A limit of
// zero or less uses DefaultRecentLimit.
func NewRecentFiles(store *Store, limit int) *RecentFiles {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentFiles{store: store, limit: limit}
}

// Add records path as the most recent entry, removing any older
// occurrence and trimming to the limit.
func (r *RecentFiles) Add(path string) error {
	if path == "" {
		return nil
	}

	list := r.List()
	next := make([]string, 0, len(list)+1)
	next = append(next, path)
	for _, got := range list {
		if got != path {
			next = append(next, got)
		}
	}
	if len(next) > r.limit {
		next = next[:r.limit]
	}
	return r.store.Set(recentKey, next)
}

// Remove drops path from the list, if present.
func (r *RecentFiles) Remove(path string) error {
	list := r.List()
	next := make([]string, 0, len(list))
	for _, got := range list {
		if got != path {
			next = append(next, got)
		}
	}
	if len(next) == len(list) {
		return nil
	}
	return r.store.Set(recentKey, next)
}

// List returns the entries, most recent first.
func (r *RecentFiles) List() []string {
	res := r.store.Get(recentKey)
	if !res.IsArray() {
		return nil
	}

	var list []string
	for _, entry := range res.Array() {
		list = append(list, entry.String())
	}
	return list
}
