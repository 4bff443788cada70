package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error so handlers can map it to an HTTP
// status and clients can branch on it without parsing messages.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindInvalidEnum        Kind = "invalid_enum_value"
	KindNotDistributable   Kind = "not_distributable"
	KindInsufficientStock  Kind = "insufficient_stock"
	KindUnknownDonation    Kind = "unknown_donation"
	KindUnknownBeneficiary Kind = "unknown_beneficiary"
	KindInvalidDate        Kind = "invalid_date"
	KindTenantResolution   Kind = "tenant_resolution_error"
	KindConsistency        Kind = "consistency_error"
)

// Error carries the error kind plus the structured detail the UI needs to
// render a specific message: the offending field names and, for
// insufficient stock, the exact remaining amount so the client can clamp
// the requested quantity and re-prompt.
type Error struct {
	Kind      Kind
	Message   string
	Fields    []string
	Remaining *int
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation builds a validation error naming the offending fields.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// InvalidEnum builds an error for a value outside a closed enumeration.
func InvalidEnum(field, value string) *Error {
	return &Error{
		Kind:    KindInvalidEnum,
		Message: fmt.Sprintf("Invalid %s: %q", field, value),
		Fields:  []string{field},
	}
}

// InsufficientStock builds the error for a distribution request that exceeds
// the donation's remaining quantity. The remaining amount is part of the
// contract, not just the message.
func InsufficientStock(remaining int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("Requested quantity exceeds remaining stock (%d available)", remaining),
		Fields:    []string{"quantity"},
		Remaining: &remaining,
	}
}

// InvalidDate builds an error for a missing, unparsable or future date.
func InvalidDate(field, message string) *Error {
	return &Error{Kind: KindInvalidDate, Message: message, Fields: []string{field}}
}

// As unwraps err into an *Error, or nil if it is not one.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// KindOf returns the kind of err, or "" for non-application errors.
func KindOf(err error) Kind {
	if ae := As(err); ae != nil {
		return ae.Kind
	}
	return ""
}

// Status maps an error to an HTTP status code. Non-application errors are
// internal server errors.
func Status(err error) int {
	ae := As(err)
	if ae == nil {
		return fiber.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation, KindInvalidEnum, KindInvalidDate:
		return fiber.StatusBadRequest
	case KindUnknownDonation, KindUnknownBeneficiary:
		return fiber.StatusNotFound
	case KindNotDistributable, KindInsufficientStock:
		return fiber.StatusConflict
	case KindTenantResolution:
		return fiber.StatusUnauthorized
	case KindConsistency:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// Details returns the structured detail object for the standard error body.
func Details(err error) map[string]interface{} {
	ae := As(err)
	if ae == nil {
		return map[string]interface{}{}
	}
	d := map[string]interface{}{"kind": string(ae.Kind)}
	if len(ae.Fields) > 0 {
		d["fields"] = ae.Fields
	}
	if ae.Remaining != nil {
		d["remaining_quantity"] = *ae.Remaining
	}
	if ae.Kind == KindConsistency {
		d["retryable"] = true
	}
	return d
}
