package domain

import "errors"

var (
	// ErrSchemaMismatch is returned when the store rejects an optional attribute column
	ErrSchemaMismatch = errors.New("store schema does not accept optional attributes")

	// ErrImportBusy is returned when a commit is requested while another batch is running
	ErrImportBusy = errors.New("an import is already running")

	// ErrCategoryExists is returned when a category with the same slug was created concurrently
	ErrCategoryExists = errors.New("category already exists")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEmptyBatch is returned when a commit contains no valid selected records
	ErrEmptyBatch = errors.New("no valid records selected")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrEnrichmentFailed is returned when a product page could not be fetched or read
	ErrEnrichmentFailed = errors.New("enrichment request failed")

	// ErrNoDescription is returned when a product page holds no usable description
	ErrNoDescription = errors.New("no description found")

	// ErrUnsupportedSpreadsheet is returned when an upload is not a readable workbook
	ErrUnsupportedSpreadsheet = errors.New("unsupported spreadsheet")
)
