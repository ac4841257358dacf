package feed

import (
	"errors"
	"fmt"
)

// Common feed errors
var (
	// ErrEmptyFeed is returned when the feed body contains no document
	ErrEmptyFeed = errors.New("feed is empty")

	// ErrMissingShop is returned when the feed declares no shop name
	ErrMissingShop = errors.New("feed is missing the shop name")

	// ErrNoCategories is returned when the feed declares no categories
	ErrNoCategories = errors.New("feed declares no categories")

	// ErrFeedTooLarge is returned when the feed body exceeds the size limit
	ErrFeedTooLarge = errors.New("feed exceeds maximum allowed size")
)

// OfferError reports a problem with a single offer in the feed
type OfferError struct {
	Index   int
	OfferID int64
	Message string
}

// Error implements the error interface
func (e OfferError) Error() string {
	if e.OfferID != 0 {
		return fmt.Sprintf("offer %d (position %d): %s", e.OfferID, e.Index+1, e.Message)
	}
	return fmt.Sprintf("offer at position %d: %s", e.Index+1, e.Message)
}

// NewOfferError creates an OfferError for the offer at the given index
func NewOfferError(index int, offerID int64, message string) OfferError {
	return OfferError{Index: index, OfferID: offerID, Message: message}
}
