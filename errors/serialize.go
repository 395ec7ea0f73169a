/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"encoding/json"
	"errors"

	"github.com/aws/smithy-go"
)

// throttlingCodes are DynamoDB error codes that clear up on their own.
var throttlingCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"ThrottlingException":                    true,
	"InternalServerError":                    true,
	"ServiceUnavailable":                     true,
}

// Detail is the wire shape of an error returned in a failure response body.
type Detail struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
}

// Describe extracts the service error code, HTTP status and retry hint from err.
func Describe(err error) Detail {
	if err == nil {
		return Detail{}
	}
	d := Detail{Message: err.Error()}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		d.Code = apiErr.ErrorCode()
		d.Retryable = throttlingCodes[d.Code] || apiErr.ErrorFault() == smithy.FaultServer
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		d.StatusCode = statusErr.HTTPStatusCode()
	}

	var retryErr interface{ RetryableError() bool }
	if errors.As(err, &retryErr) && retryErr.RetryableError() {
		d.Retryable = true
	}
	return d
}

// IsRetryable reports whether err is a transient store failure.
func IsRetryable(err error) bool {
	return Describe(err).Retryable
}

// Serialize renders err as the JSON body of a failure response.
// Callers must treat the result as opaque.
func Serialize(err error) string {
	b, mErr := json.Marshal(Describe(err))
	if mErr != nil {
		return `{"message":"unserializable error"}`
	}
	return string(b)
}
