// Package ledger implements the transaction-effect engine: the rules that
// mutate an asset's quantity and value when a transaction is applied or
// reversed, and the reverse-then-reapply sequencing used when a transaction
// is edited.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yogibear102/wealthfolio/internal/models"
)

// ErrInvalidArgument marks caller-supplied values that fail validation.
// No mutation has occurred when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInconsistentState marks a failed reversal of previously-applied state
// during an edit. The coordinator treats it as unrecoverable and aborts.
var ErrInconsistentState = errors.New("inconsistent data")

// Effect is the (value-delta, quantity-delta) pair a transaction applies to
// an asset.
type Effect struct {
	ValueDelta    float64
	QuantityDelta float64
}

// Reversed returns the effect that undoes e bit-for-bit: same magnitudes,
// opposite signs. Reversal is defined purely as negation so apply and
// reverse share a single code path.
func (e Effect) Reversed() Effect {
	return Effect{ValueDelta: -e.ValueDelta, QuantityDelta: -e.QuantityDelta}
}

// EffectOf validates (txType, amount, quantity) and computes the resulting
// effect. Buy and Income increase value and quantity; Sell and Expense
// decrease them. Amount and quantity contribute by absolute value.
func EffectOf(txType string, amount, quantity float64) (Effect, error) {
	if strings.TrimSpace(txType) == "" {
		return Effect{}, fmt.Errorf("%w: transaction type is required", ErrInvalidArgument)
	}
	canonical, ok := models.CanonicalTransactionType(txType)
	if !ok {
		return Effect{}, fmt.Errorf("%w: unsupported transaction type %q", ErrInvalidArgument, txType)
	}

	amount = math.Abs(amount)
	if amount <= 0 {
		return Effect{}, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	effect := Effect{ValueDelta: amount, QuantityDelta: math.Abs(quantity)}
	if !canonical.Increasing() {
		effect = effect.Reversed()
	}
	return effect, nil
}

// ApplyTo mutates the asset in place, flooring both value and quantity at
// zero. The clamp is deliberate: the engine never represents a negative
// holding, even when a reversal of inconsistent state would produce one.
// Clamping is lossy: once it fires, an exact reversal no longer restores
// the pre-effect state.
func (e Effect) ApplyTo(asset *models.Asset) float64 {
	asset.CurrentValue = math.Max(asset.CurrentValue+e.ValueDelta, 0)
	asset.Quantity = math.Max(asset.Quantity+e.QuantityDelta, 0)
	return asset.CurrentValue
}

// ApplyEffect validates the inputs, computes the transaction's effect, and
// applies it to the asset, returning the new current value. With reverse set
// the previously-applied effect is undone instead. The asset is the only
// thing mutated; persistence is the caller's responsibility.
func ApplyEffect(asset *models.Asset, txType string, amount, quantity float64, reverse bool) (float64, error) {
	if asset == nil {
		return 0, fmt.Errorf("%w: asset is required", ErrInvalidArgument)
	}

	effect, err := EffectOf(txType, amount, quantity)
	if err != nil {
		return 0, err
	}
	if reverse {
		effect = effect.Reversed()
	}
	return effect.ApplyTo(asset), nil
}

// ParseAmount converts a user-supplied amount string to a number. Unlike
// quantity, a malformed amount is an error.
func ParseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount must be numeric", ErrInvalidArgument)
	}
	return v, nil
}

// ParseQuantity converts a user-supplied quantity string, silently
// defaulting to 0 when it does not parse. The leniency is deliberate:
// quantity is optional for pure cash effects.
func ParseQuantity(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
