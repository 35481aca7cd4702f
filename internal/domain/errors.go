package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product or code cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrUnknownPriceTier is returned when a code has no tier for the requested size
	ErrUnknownPriceTier = errors.New("size not available for product")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog documents could not be loaded
	ErrCatalogUnavailable = errors.New("catalog data unavailable")

	// ErrGeneratorFailure is returned when the hosted language model request fails
	ErrGeneratorFailure = errors.New("answer generator request failed")

	// ErrNegativeQuantity is returned when a quote line has a quantity below zero
	ErrNegativeQuantity = errors.New("quantity cannot be negative")

	// ErrNegativeDiscount is returned when a quote line has a discount below zero
	ErrNegativeDiscount = errors.New("discount cannot be negative")
)
