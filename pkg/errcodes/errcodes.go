package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// Slot provider (supplies API).
	ProviderUnavailable failure.ErrorCode = "ProviderUnavailable" // 5xx, timeouts, 429
	ProviderForbidden   failure.ErrorCode = "ProviderForbidden"   // bad or expired credential
	ProviderBadRequest  failure.ErrorCode = "ProviderBadRequest"  // malformed request, retrying is pointless
	ProviderBadPayload  failure.ErrorCode = "ProviderBadPayload"  // 2xx with a body we cannot decode

	// Subscription source (spreadsheet).
	SubscriptionInvalid     failure.ErrorCode = "SubscriptionInvalid"
	SubscriptionSourceError failure.ErrorCode = "SubscriptionSourceError"
	WarehouseUnknown        failure.ErrorCode = "WarehouseUnknown"

	// Engine state.
	LedgerUnavailable  failure.ErrorCode = "LedgerUnavailable"
	NotificationFailed failure.ErrorCode = "NotificationFailed"
	RecipientBlocked   failure.ErrorCode = "RecipientBlocked"
)
