// Package errors contains domain-specific errors for the relay domain
package errors

import (
	pkgerrors "github.com/bhhshwXD/HDTokster/pkg/errors"
)

// Domain errors for relay operations
var (
	ErrEmptyLink          = pkgerrors.NewValidationError("message text cannot be empty")
	ErrNoMedia            = pkgerrors.NewNotFoundError("extraction produced no media")
	ErrExtractionFailed   = pkgerrors.NewInternalError("media extraction failed")
	ErrEngineUnavailable  = pkgerrors.NewUnavailableError("extraction engine unavailable")
	ErrFileOutsideWorkdir = pkgerrors.NewValidationError("file is outside the request directory")
	ErrDeliveryFailed     = pkgerrors.NewInternalError("message delivery failed")
	ErrTempDir            = pkgerrors.NewInternalError("temporary directory error")
	ErrUnexpectedPanic    = pkgerrors.NewInternalError("handler panicked")
	ErrKafkaProducer      = pkgerrors.NewInternalError("kafka producer error")
)
