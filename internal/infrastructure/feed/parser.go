package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

// Parse reads a YAML price feed and validates its structure.
// Offers referencing undeclared categories, negative quantities and
// non-positive prices are rejected.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	return ParseBytes(raw)
}

// ParseBytes parses and validates a YAML price feed held in memory
func ParseBytes(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFeed
	}

	// feeds exported from legacy Windows tooling arrive in cp1251
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("feed is neither UTF-8 nor windows-1251: %w", err)
		}
		raw = decoded
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed feed: %w", err)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural rules a feed must satisfy before it
// can be applied to the catalog. Documents built in code skip Parse, so
// the importer re-runs this on every document it receives.
func Validate(doc *Document) error {
	if doc.Shop == "" {
		return ErrMissingShop
	}
	if len(doc.Categories) == 0 {
		return ErrNoCategories
	}

	declared := make(map[int64]string, len(doc.Categories))
	for _, category := range doc.Categories {
		if category.ID <= 0 {
			return fmt.Errorf("category %q is missing a valid id", category.Name)
		}
		if category.Name == "" {
			return fmt.Errorf("category %d is missing a name", category.ID)
		}
		if _, dup := declared[category.ID]; dup {
			return fmt.Errorf("category %d is declared twice", category.ID)
		}
		declared[category.ID] = category.Name
	}

	seen := make(map[int64]struct{}, len(doc.Offers))
	for i, offer := range doc.Offers {
		if offer.ID <= 0 {
			return NewOfferError(i, offer.ID, "missing or invalid id")
		}
		if _, dup := seen[offer.ID]; dup {
			return NewOfferError(i, offer.ID, "duplicate offer id")
		}
		seen[offer.ID] = struct{}{}

		if offer.Name == "" {
			return NewOfferError(i, offer.ID, "missing name")
		}
		if _, ok := declared[offer.CategoryID]; !ok {
			return NewOfferError(i, offer.ID,
				fmt.Sprintf("references undeclared category %d", offer.CategoryID))
		}
		if offer.Quantity < 0 {
			return NewOfferError(i, offer.ID, "negative quantity")
		}
		if !offer.Price.IsPositive() {
			return NewOfferError(i, offer.ID, "price must be positive")
		}
		if !offer.RetailPrice.IsPositive() {
			return NewOfferError(i, offer.ID, "retail price must be positive")
		}
	}
	return nil
}

// IsValidationError reports whether err describes feed content rather
// than a transport or IO failure
func IsValidationError(err error) bool {
	var offerErr OfferError
	if errors.As(err, &offerErr) {
		return true
	}
	return errors.Is(err, ErrEmptyFeed) ||
		errors.Is(err, ErrMissingShop) ||
		errors.Is(err, ErrNoCategories)
}
