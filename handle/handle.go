// Package handle exposes the Repository and Index as an opaque-handle
// surface: integer handles instead of Repository and Index pointers, and
// NVBuffers with an explicit destroy call for query results. This is the
// stable shape a cgo shim would wrap to expose the core to non-Go callers;
// no cgo boundary is built here. Query results are returned as *NVBuffer
// and recorded errors as Go error values (RepoLastError), and every
// allocating call has a matching destroy call.
package handle

import (
	"sync"

	"github.com/crandex/crandex/repo"
	"github.com/crandex/crandex/version"
)

// RepoHandle identifies a live Repository. The zero value is never valid.
type RepoHandle uint64

// IndexHandle identifies a live Index snapshot. The zero value is never
// valid.
type IndexHandle uint64

var (
	mu          sync.Mutex
	nextHandle  uint64
	repos       = map[RepoHandle]*repo.Repository{}
	indexes     = map[IndexHandle]*repo.Index{}
	lastErrByID = map[RepoHandle]error{}
)

func allocate() uint64 {
	nextHandle++
	return nextHandle
}

// RepoInit allocates an empty Repository and returns a handle to it, or
// 0 if allocation failed (never happens for the pure-Go core, kept for
// surface symmetry with the eventual FFI caller's null-check convention).
func RepoInit() RepoHandle {
	mu.Lock()
	defer mu.Unlock()

	h := RepoHandle(allocate())
	repos[h] = repo.New()
	return h
}

// RepoDeinit releases the Repository identified by h. Deinitializing an
// unknown or already-deinitialized handle is a no-op.
func RepoDeinit(h RepoHandle) {
	mu.Lock()
	defer mu.Unlock()

	delete(repos, h)
	delete(lastErrByID, h)
}

// RepoRead parses data as DCF text under the given origin label and
// appends it to the Repository identified by h, returning the number of
// stanzas committed (0 on failure; inspect RepoLastError for why).
func RepoRead(h RepoHandle, origin string, data []byte) int {
	mu.Lock()
	r, ok := repos[h]
	mu.Unlock()
	if !ok {
		return 0
	}

	n, err := r.Read(origin, data)

	mu.Lock()
	lastErrByID[h] = err
	mu.Unlock()

	return n
}

// RepoLastError returns the most recently recorded error for h, or nil.
func RepoLastError(h RepoHandle) error {
	mu.Lock()
	defer mu.Unlock()
	return lastErrByID[h]
}

// IndexInit builds an Index snapshot over the Repository identified by h,
// returning 0 if h is not a live Repository handle.
func IndexInit(h RepoHandle) IndexHandle {
	mu.Lock()
	defer mu.Unlock()

	r, ok := repos[h]
	if !ok {
		return 0
	}

	ih := IndexHandle(allocate())
	indexes[ih] = r.CreateIndex()
	return ih
}

// IndexDeinit releases the Index identified by ih.
func IndexDeinit(ih IndexHandle) {
	mu.Lock()
	defer mu.Unlock()
	delete(indexes, ih)
}

// NVRecord is one entry of an NVBuffer: an interned name resolved to a
// plain string (the pure-Go surface has no arena pointer to hand across
// a process boundary) plus its constraint.
type NVRecord struct {
	Name     string
	Operator version.Operator
	Version  version.Version
}

// NVBuffer is a flat, explicitly-owned array of NVRecords, mirroring the
// nv_buffer the FFI surface would allocate and the caller would free.
type NVBuffer struct {
	Records []NVRecord
}

// NVBufferCreate allocates an NVBuffer with capacity for n records.
func NVBufferCreate(n int) *NVBuffer {
	return &NVBuffer{Records: make([]NVRecord, 0, n)}
}

// NVBufferDestroy releases buf. Destroying nil is a no-op.
func NVBufferDestroy(buf *NVBuffer) {
	if buf == nil {
		return
	}
	buf.Records = nil
}

// IndexUnsatisfied resolves rootName's unmet dependencies against the
// Index identified by ih and the Repository identified by rh, returning a
// freshly allocated NVBuffer, or nil if either handle is unknown or
// rootName cannot be resolved.
func IndexUnsatisfied(ih IndexHandle, rh RepoHandle, rootName string) *NVBuffer {
	mu.Lock()
	idx, idxOK := indexes[ih]
	r, repoOK := repos[rh]
	mu.Unlock()
	if !idxOK || !repoOK {
		return nil
	}

	unmet, err := idx.Unmet(rootName)

	mu.Lock()
	lastErrByID[rh] = err
	mu.Unlock()

	if err != nil {
		return nil
	}

	buf := NVBufferCreate(len(unmet))
	in := r.Interner()
	for _, nvc := range unmet {
		buf.Records = append(buf.Records, NVRecord{
			Name:     in.String(nvc.Name),
			Operator: nvc.Constraint.Operator,
			Version:  nvc.Constraint.Version,
		})
	}
	return buf
}
