// Package businessflow contains the core business logic and use cases for outreach workflows
package businessflow

import (
	"errors"
	"fmt"

	"github.com/salesloop/outreach/app/services"
)

// Business flow error constants
var (
	// Customer-related errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrAccountInactive  = errors.New("account is inactive")

	// Campaign-related errors
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrCampaignAccessDenied    = errors.New("campaign access denied")
	ErrInvalidChannel          = errors.New("invalid campaign channel")
	ErrInvalidIntent           = errors.New("invalid engagement intent")
	ErrNoValidRecipients       = errors.New("no contact has a destination for the channel")
	ErrAllDispatchesFailed     = errors.New("every dispatch failed")
	ErrParentCampaignNotFound  = errors.New("parent campaign not found")
	ErrParentCampaignForbidden = errors.New("parent campaign belongs to another customer")

	// Outcome-related errors
	ErrSendEntryNotFound = errors.New("send entry not found")
	ErrOutcomeLocked     = errors.New("outcome already finalized")
	ErrInvalidOutcome    = errors.New("invalid outcome")

	// Template-related errors
	ErrTemplateNotFound      = errors.New("template not found")
	ErrTemplateFieldsMissing = errors.New("template fields missing")

	// Contact-related errors
	ErrContactNotFound = errors.New("contact not found")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

// UpstreamError wraps a collaborator failure and records whether a retry by
// the caller could plausibly succeed. The core itself never retries.
type UpstreamError struct {
	Service   string
	Retriable bool
	Err       error
}

func (e *UpstreamError) Error() string {
	kind := "fatal"
	if e.Retriable {
		kind = "retriable"
	}
	return fmt.Sprintf("%s upstream failure (%s): %v", e.Service, kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(service string, retriable bool, err error) *UpstreamError {
	return &UpstreamError{
		Service:   service,
		Retriable: retriable,
		Err:       err,
	}
}

// newDispatchError wraps a provider dispatch failure. A rejection by the
// provider is permanent and marked fatal; transport, timeout, and decode
// failures stay retriable.
func newDispatchError(service string, err error) *UpstreamError {
	return NewUpstreamError(service, !errors.Is(err, services.ErrDeliveryRejected), err)
}

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsInvalidChannel(err error) bool {
	return errors.Is(err, ErrInvalidChannel)
}

func IsInvalidIntent(err error) bool {
	return errors.Is(err, ErrInvalidIntent)
}

func IsNoValidRecipients(err error) bool {
	return errors.Is(err, ErrNoValidRecipients)
}

func IsAllDispatchesFailed(err error) bool {
	return errors.Is(err, ErrAllDispatchesFailed)
}

func IsParentCampaignNotFound(err error) bool {
	return errors.Is(err, ErrParentCampaignNotFound)
}

func IsParentCampaignForbidden(err error) bool {
	return errors.Is(err, ErrParentCampaignForbidden)
}

func IsSendEntryNotFound(err error) bool {
	return errors.Is(err, ErrSendEntryNotFound)
}

func IsOutcomeLocked(err error) bool {
	return errors.Is(err, ErrOutcomeLocked)
}

func IsInvalidOutcome(err error) bool {
	return errors.Is(err, ErrInvalidOutcome)
}

func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

func IsTemplateFieldsMissing(err error) bool {
	return errors.Is(err, ErrTemplateFieldsMissing)
}

func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

// IsUpstreamError reports whether err wraps an UpstreamError
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsRetriableUpstream reports whether err wraps a retriable UpstreamError
func IsRetriableUpstream(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Retriable
	}
	return false
}
