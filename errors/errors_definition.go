// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXXX or 5XXXX.
// If you notice there's a gap DON'T fill it in, that code was used in the past and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	// Authentication errors (401)
	ErrUnauthorized = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}

	// Validation errors (400)
	ErrEmailMalformed       = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid email format")}
	ErrPasswordTooShort     = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("password must be at least 8 characters")}
	ErrMalformedBody        = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrInvalidPartyData     = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid party information provided")}
	ErrMalformedURLParam    = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidData          = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid data provided")}
	ErrStorageInvalidObject = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid storage object or parameters")}

	// Payment validation errors (400)
	ErrAccountInvalid            = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("settlement account is missing or invalid")}
	ErrAccountNotSettlementReady = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("settlement account cannot receive transfers yet")}
	ErrInvalidCheckoutRequest    = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid checkout request")}
	ErrProductAlreadySold        = Error{Code: 40016, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("product is already sold")}
	ErrListingAlreadyClaimed     = Error{Code: 40017, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("listing is already claimed")}

	// Not found errors (404)
	ErrPartyNotFound   = Error{Code: 40020, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("party not found")}
	ErrProductNotFound = Error{Code: 40021, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("product not found")}
	ErrListingNotFound = Error{Code: 40022, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("listing not found")}
	ErrOrderNotFound   = Error{Code: 40023, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("order not found")}

	// Conflict errors (409)
	ErrDuplicateConflict = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("resource already exists")}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrProviderError              = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
	ErrWebhookProcessingFailed    = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: webhook processing failed"), LogLevel: "error"}
)
