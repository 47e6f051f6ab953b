package table

import "errors"

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrFailedUpdateStatus = errors.New("failed to update table status")
)
