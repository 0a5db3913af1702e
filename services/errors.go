package services

import (
	"errors"

	"aimentor/db"
)

var (
	ErrNotFound     = db.ErrNotFound
	ErrInvalidInput = errors.New("invalid input")
)
