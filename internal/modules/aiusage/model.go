// README: Monthly text-generation allowance for signed-in visitors.
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the monthly allowance when none is configured.
const DefaultTokens = 100
