package services

import "errors"

// Upload error taxonomy. Handlers map these onto HTTP statuses with
// errors.Is; everything else is treated as an internal error.
var (
	// ErrPathTraversal is deliberately detail-free so the response cannot
	// leak filesystem structure.
	ErrPathTraversal = errors.New("path escapes allowed root")

	ErrNotFound = errors.New("file not found or not a regular file")

	ErrInvalidExpiry = errors.New("expires_in must be a positive number of seconds")

	ErrTransfer = errors.New("transfer to storage failed")

	ErrSigning = errors.New("failed to sign download URL")
)
