package services

import "errors"

// ErrOrderNotFound is returned when no order matches the given identifier
var ErrOrderNotFound = errors.New("order not found")

// ErrDuplicateOrder is returned when a generated custom_order_id collides
// with an existing order
var ErrDuplicateOrder = errors.New("order with this custom_order_id already exists")

// ErrInvalidGateway is returned when the requested gateway is not supported
var ErrInvalidGateway = errors.New("unsupported payment gateway")

// ErrInvalidAmount is returned when the order amount is not a positive number
var ErrInvalidAmount = errors.New("order amount must be greater than zero")

// ErrDuplicateBankReference is returned when a settlement write collides on
// the bank reference
var ErrDuplicateBankReference = errors.New("bank reference already recorded")
