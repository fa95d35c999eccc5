// Drains single-severity runs of records from the head of a queue
package batcher

import "logshipper/internal/record"

// Head-side view of a queue
type Source interface {
	PopHead() (record.Record, bool)
	PeekHead() (record.Record, bool)
}

// Removes up to maxSize records from the head of q, stopping at the first severity change.
// Returns an empty batch when q is empty. Drained records are gone from q; callers requeue on failure.
func DrainHomogeneous(q Source, maxSize int) (batch record.Batch) {
	first, ok := q.PopHead()
	if !ok {
		return
	}
	batch = append(batch, first)

	for len(batch) < maxSize {
		next, ok := q.PeekHead()
		if !ok || next.Severity != first.Severity {
			break
		}
		// Single consumer: the peeked record is still the head
		next, _ = q.PopHead()
		batch = append(batch, next)
	}
	return
}
