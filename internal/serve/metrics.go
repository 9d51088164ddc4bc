package serve

import "sync"

// metricsStore is intentionally tiny: a few counters are enough for basic
// observability of a single-URL local server.
type metricsStore struct {
	mu sync.Mutex

	requestsTotal  uint64
	requestsByPath map[pathKey]uint64

	refreshOK     uint64
	refreshFailed uint64
}

type pathKey struct {
	Path   string
	Status int
}

var metrics = &metricsStore{
	requestsByPath: make(map[pathKey]uint64),
}

func metricsIncRequest(path string, status int) {
	metrics.mu.Lock()
	metrics.requestsTotal++
	metrics.requestsByPath[pathKey{Path: path, Status: status}]++
	metrics.mu.Unlock()
}

func metricsIncRefresh(ok bool) {
	metrics.mu.Lock()
	if ok {
		metrics.refreshOK++
	} else {
		metrics.refreshFailed++
	}
	metrics.mu.Unlock()
}

// metricsSnapshot exists for tests and debugging.
func metricsSnapshot() (total, refreshOK, refreshFailed uint64) {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	return metrics.requestsTotal, metrics.refreshOK, metrics.refreshFailed
}
