package db

import "fmt"

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrInvalidData    = fmt.Errorf("invalid data provided")
	ErrProductSold    = fmt.Errorf("product already sold")
	ErrListingClaimed = fmt.Errorf("listing already claimed")
)
