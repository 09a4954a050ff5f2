// README: Common money value object used across modules.
package types

import "fmt"

// Money is an amount in the currency's minor unit. HUF has no minor unit in
// practice, so parking fees are whole forints.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

// Mul returns m scaled by n units (for example hours of parking).
func (m Money) Mul(n int) Money {
	return Money{Amount: m.Amount * int64(n), Currency: m.Currency}
}
