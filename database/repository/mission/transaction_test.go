package missionRepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassifyTxnError(t *testing.T) {
	writeConflict := mongo.CommandError{
		Code:    112,
		Name:    "WriteConflict",
		Message: "Caused by :: Write conflict during plan execution",
		Labels:  []string{"TransientTransactionError"},
	}
	duplicate := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Code: 11000, Message: "E11000 duplicate key error"}}},
	}
	other := errors.New("connection reset")

	tests := []struct {
		name      string
		err       error
		contended error
		want      error
	}{
		{"nil", nil, ErrSlotTaken, nil},
		{"sentinel passes through", ErrNotFound, ErrSlotTaken, ErrNotFound},
		{"wrapped sentinel passes through", fmt.Errorf("tx: %w", ErrStatusChanged), ErrSlotTaken, ErrStatusChanged},
		{"duplicate key", fmt.Errorf("claim slots failed: %w", duplicate), ErrStatusChanged, ErrSlotTaken},
		{"write conflict on create", fmt.Errorf("claim slots failed: %w", writeConflict), ErrSlotTaken, ErrSlotTaken},
		{"write conflict on status update", writeConflict, ErrStatusChanged, ErrStatusChanged},
		{"unrelated", other, ErrSlotTaken, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTxnError(tt.err, tt.contended)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyTxnErrorIgnoresNonTransientCommandErrors(t *testing.T) {
	err := mongo.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"}
	got := classifyTxnError(err, ErrSlotTaken)
	assert.NotErrorIs(t, got, ErrSlotTaken)
	assert.Equal(t, err, got)
}
