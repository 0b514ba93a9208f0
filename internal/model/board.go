package model

import (
	"github.com/google/uuid"
)

type Board struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Columns []Column  `json:"columns"`
}

// Clone returns a deep copy of the board. Snapshot mutations always operate
// on a clone so the previous value stays intact until the whole-value swap.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	nb := *b
	nb.Columns = make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		nb.Columns[i] = col.Clone()
	}
	return &nb
}
