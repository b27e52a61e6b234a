// Package review holds extracted records in fetch order and supports
// field-level operator edits before export. Records are never removed
// or reordered.
package review

import (
	"fmt"
	"sync"

	"gleaner/internal/records"
)

// Buffer is the order-preserving in-memory record store. Appends and
// edits are serialized so operator edits may overlap a running pipeline.
type Buffer struct {
	mu      sync.Mutex
	records []records.Record
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a record at the end of the buffer.
func (b *Buffer) Append(record records.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, record)
}

// Len reports the number of records held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Get returns a copy of the record at the zero-based position.
func (b *Buffer) Get(index int) (records.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.records) {
		return records.Record{}, fmt.Errorf("record index %d out of range (have %d)", index, len(b.records))
	}
	return b.records[index].Clone(), nil
}

// Records returns a deep copy of the current contents in order.
func (b *Buffer) Records() []records.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]records.Record, len(b.records))
	for i, record := range b.records {
		out[i] = record.Clone()
	}
	return out
}

// UpdateField replaces one field of the record at the zero-based
// position. All other fields and the record's position are unchanged.
func (b *Buffer) UpdateField(index int, field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.records) {
		return fmt.Errorf("record index %d out of range (have %d)", index, len(b.records))
	}
	return records.Apply(&b.records[index], field, value)
}
