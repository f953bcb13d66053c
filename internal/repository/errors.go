package repository

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrConnectionFailed = errors.New("storage connection failed")
	ErrQueryFailed      = errors.New("storage query failed")
	ErrConflict         = errors.New("concurrent update conflict")
)
