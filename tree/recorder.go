package tree

import (
	"github.com/frisitano/binary-merkle-tree/common"
	"golang.org/x/exp/maps"
)

// Recorder is a TreeRecorder collecting the set of node digests resolved
// from the backing store. A caller can attach it to a TreeDB, run the reads
// a third party should be able to replay, and drain the recorded digests to
// assemble a witness from the store.
type Recorder struct {
	visited map[common.Hash]struct{}
}

// NewRecorder creates a new Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		visited: make(map[common.Hash]struct{}),
	}
}

// Record adds the given node digest to the recorded set.
func (r *Recorder) Record(node common.Hash) {
	r.visited[node] = struct{}{}
}

// Visited returns true if the given node digest has been recorded.
func (r *Recorder) Visited(node common.Hash) bool {
	_, exists := r.visited[node]
	return exists
}

// Drain returns all recorded node digests and resets the recorder.
func (r *Recorder) Drain() []common.Hash {
	nodes := maps.Keys(r.visited)
	r.visited = make(map[common.Hash]struct{})
	return nodes
}
