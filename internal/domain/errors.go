package domain

import "errors"

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrRemoteCall        = errors.New("remote call failed")
	ErrDecode            = errors.New("could not decode document with any known encoding")
	ErrTemplateStructure = errors.New("template structure mismatch")
	ErrValidation        = errors.New("validation failed")

	ErrListingNotFound = errors.New("listing not found in current results")
	ErrSellerNotInCart = errors.New("seller has no items in cart")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPage     = errors.New("page index out of range")
	ErrNoResults       = errors.New("no search has been performed")
)
