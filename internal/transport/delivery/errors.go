package delivery

import "errors"

var (
	ErrNoOrders = errors.New("no orders")
)
