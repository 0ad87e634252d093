package domain

import "errors"

var (
	// ErrUnknownCategory is returned by repositories when an item would
	// reference a category that does not exist.
	ErrUnknownCategory = errors.New("category does not exist")

	// ErrCategoryInUse is returned when a category still has items.
	ErrCategoryInUse = errors.New("category is referenced by items")
)
