package main

import "errors"

var (
	// ErrEmptySource means a provider responded but yielded zero valid rows
	// after row-level validation. Fatal for the ingestion job.
	ErrEmptySource = errors.New("source yielded no valid draw records")

	// ErrProviderUnavailable covers network failures and non-success
	// responses. Automatic-fallback mode may try the next provider.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInsufficientHistory stops prediction generation when fewer draws
	// are stored than the configured minimum.
	ErrInsufficientHistory = errors.New("not enough draw history")

	// ErrNoDraws means the store holds no draw at all, so there is no
	// latest issue to advance from.
	ErrNoDraws = errors.New("no draws stored")
)
