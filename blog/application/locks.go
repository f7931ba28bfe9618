package application

import "sync"

// postLocks serializes mutations per post id. Two requests mutating the same
// post must not interleave their read-image-path / write-image-path
// sequences; requests for different posts proceed independently.
type postLocks struct {
	mu      sync.Mutex
	entries map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPostLocks() *postLocks {
	return &postLocks{
		entries: make(map[int64]*lockEntry),
	}
}

// lock acquires the mutex for the given post id, creating it on first use.
func (l *postLocks) lock(id int64) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// unlock releases the mutex for the given post id and drops the entry once
// no one else is waiting on it.
func (l *postLocks) unlock(id int64) {
	l.mu.Lock()
	e := l.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
