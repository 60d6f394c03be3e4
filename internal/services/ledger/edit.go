package ledger

import (
	"fmt"
	"time"

	"github.com/yogibear102/wealthfolio/internal/models"
)

// EditChange carries the target values for an in-memory transaction edit.
// Nil Note/Date leave the corresponding field untouched.
type EditChange struct {
	Asset  *models.Asset
	Type   models.TransactionType
	Amount float64
	Note   *string
	Date   *time.Time
}

// EditTransaction transitions tx and its assets from the old effect to the
// new one without ever leaving a partially-applied state visible past a
// failure boundary:
//
//  1. Reverse the old effect on the old asset. A failure here means the
//     stored state cannot be trusted; abort with ErrInconsistentState and
//     mutate nothing further.
//  2. Mutate the transaction's fields to the new values.
//  3. Apply the new effect on the new asset. On failure, compensate: re-apply
//     the old effect and restore the transaction's original fields, so the
//     net observable effect is "no change".
//
// Everything happens synchronously in memory; persisting the mutated objects
// is the caller's responsibility. This is best-effort compensation, not a
// transactional guarantee against crashes mid-sequence.
func EditTransaction(tx *models.Transaction, oldAsset *models.Asset, change EditChange) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction is required", ErrInvalidArgument)
	}
	if change.Asset == nil {
		return fmt.Errorf("%w: asset is required", ErrInvalidArgument)
	}

	original := *tx

	if _, err := ApplyEffect(oldAsset, string(tx.Type), tx.Amount, 0, true); err != nil {
		return fmt.Errorf("%w: failed to reverse previous effect: %v", ErrInconsistentState, err)
	}

	tx.AssetID = change.Asset.ID
	tx.Type = change.Type
	tx.Amount = change.Amount
	if change.Note != nil {
		tx.Note = *change.Note
	}
	if change.Date != nil {
		tx.Date = *change.Date
	}

	if _, err := ApplyEffect(change.Asset, string(change.Type), change.Amount, 0, false); err != nil {
		// Compensate: undo step 1 and restore the record.
		ApplyEffect(oldAsset, string(original.Type), original.Amount, 0, false)
		*tx = original
		return err
	}

	return nil
}
