package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for common business-logic errors.
Repository sentinel errors are wrapped into these before leaving a service.
*/

// ErrNotFound wraps a repository "record not found" into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists wraps a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations the domain does not allow.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus builds a 400 for operations invalid in the current status.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrServiceUnavailable marks an external collaborator outage. Distinct from
// business-rule rejections so clients can tell "try again later" apart from
// "you cannot do this".
func ErrServiceUnavailable(err error, domain string) *AppError {
	return Wrap(err, CodeServiceUnavailable, domain, "External service temporarily unavailable", http.StatusServiceUnavailable)
}

// --- Booking ledger ---

// ErrInsufficientCredits - the user's balance does not cover the class price.
var ErrInsufficientCredits = New(
	CodeInsufficientCredits,
	"booking",
	"Not enough credits to book this class",
	http.StatusConflict,
)

// ErrClassFull - every seat is taken by a pending or confirmed booking.
var ErrClassFull = New(
	CodeClassFull,
	"booking",
	"Class has no remaining seats",
	http.StatusConflict,
)

// ErrClassNotActive - the class is inactive or already started.
var ErrClassNotActive = New(
	CodeClassNotActive,
	"booking",
	"Class is not open for booking",
	http.StatusConflict,
)

// ErrPaymentDeclined - the payment processor refused the charge.
var ErrPaymentDeclined = New(
	CodePaymentDeclined,
	"payment",
	"Payment was declined",
	http.StatusPaymentRequired,
)

// ErrConcurrentModification - an optimistic write lost the race. The booking
// service retries a bounded number of times before surfacing this.
var ErrConcurrentModification = New(
	CodeConcurrentModification,
	"booking",
	"Resource was modified concurrently, please retry",
	http.StatusConflict,
)

// ErrBookingNotCancellable - booking is already terminal or the class started.
var ErrBookingNotCancellable = New(
	CodeInvalidStatus,
	"booking",
	"Booking can no longer be cancelled",
	http.StatusConflict,
)

// --- Subscriptions & payments ---

// ErrSubscriptionCancelled - the subscription is already cancelled.
var ErrSubscriptionCancelled = New(
	CodeInvalidOperation,
	"subscription",
	"Subscription is already cancelled",
	http.StatusBadRequest,
)

// ErrSubscriptionExists - the user already has an active subscription.
var ErrSubscriptionExists = New(
	CodeAlreadyExists,
	"subscription",
	"An active subscription already exists",
	http.StatusConflict,
)

// ErrUnknownPlan - the requested plan type is not configured.
var ErrUnknownPlan = New(
	CodeValidationFailed,
	"subscription",
	"Unknown subscription plan",
	http.StatusBadRequest,
)

// --- Auth & user status ---

// ErrWeakPassword - password below the minimum length.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// ErrEmailAlreadyExists - email is already registered.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - wrong email or password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - invalid or expired token (refresh, verify, reset).
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserSuspended - account temporarily blocked.
var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

// ErrUserBanned - account banned.
var ErrUserBanned = New(
	CodeForbidden,
	"auth",
	"Your account has been banned",
	http.StatusForbidden,
)

// ErrUserNotVerified - email not confirmed yet.
var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"Please verify your email address",
	http.StatusForbidden,
)

// ErrInvalidUserRole - the operation is not defined for the user's role.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - a non-admin attempted an admin action.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Instructors & classes ---

// ErrInstructorExists - the user already has an instructor profile.
var ErrInstructorExists = New(
	CodeAlreadyExists,
	"instructor",
	"Instructor profile already exists",
	http.StatusConflict,
)

// ErrInstructorHasClasses - role change blocked while classes reference the
// instructor (orphan prevention).
var ErrInstructorHasClasses = New(
	CodeConflict,
	"instructor",
	"Instructor still owns active classes",
	http.StatusConflict,
)

// ErrNotClassOwner - acting user does not own the class.
var ErrNotClassOwner = New(
	CodeForbidden,
	"class",
	"You do not own this class",
	http.StatusForbidden,
)

// --- Uploads & files ---

// ErrFileTooLarge - file exceeds the per-request size limit.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - the MIME type is not allowed.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
