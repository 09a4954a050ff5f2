// README: Saved vehicle plates per signed-in user.
package vehicle

import (
	"errors"
	"time"
)

var (
	ErrDuplicatePlate = errors.New("plate already saved")
	ErrInvalidPlate   = errors.New("invalid license plate")
)

type Vehicle struct {
	ID           int64     `json:"id"`
	LicensePlate string    `json:"licensePlate"`
	CreatedAt    time.Time `json:"createdAt"`
}
