package repository

import "errors"

var (
	// ErrInvalidSource indicates an invalid chart image source reference
	ErrInvalidSource = errors.New("invalid chart image source")

	// ErrImageNotFound indicates the chart image was not found
	ErrImageNotFound = errors.New("chart image not found")

	// ErrRepositoryUnavailable indicates the repository is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
