package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are "<MODULE>_<NNN>".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
)

// Case record error codes.
const (
	ErrCodeCaseNotFound    ErrorCode = "CASE_001"
	ErrCodeCaseDataInvalid ErrorCode = "CASE_002"
	ErrCodeNoMrnDetails    ErrorCode = "CASE_003"
)

// DWP office table error codes.
const (
	ErrCodeOfficeNotFound         ErrorCode = "DWP_001"
	ErrCodeDefaultOfficeMissing   ErrorCode = "DWP_002"
	ErrCodeDefaultOfficeAmbiguous ErrorCode = "DWP_003"
	ErrCodeBenefitUnsupported     ErrorCode = "DWP_004"
	ErrCodeReferenceDataInvalid   ErrorCode = "DWP_005"
)

// Case store (CCD) error codes.
const (
	ErrCodeCCDRequestFailed    ErrorCode = "CCD_001"
	ErrCodeCCDUnexpectedStatus ErrorCode = "CCD_002"
	ErrCodeCCDDecodeFailed     ErrorCode = "CCD_003"
)

// Short aliases used at call sites.
const (
	CodeOK                 = ErrorCode("OK")
	CodeUnknown            = ErrorCode("UNKNOWN")
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeUnauthorized       = ErrCodeUnauthorized
	CodeNotFound           = ErrCodeNotFound
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeTimeout            = ErrCodeTimeout
	CodeValidation         = ErrCodeValidation
	CodeSerialization      = ErrCodeSerialization
	CodeCacheError         = ErrCodeCacheError
	CodeMessageQueueError  = ErrCodeMessagingError

	CodeCaseNotFound           = ErrCodeCaseNotFound
	CodeCaseDataInvalid        = ErrCodeCaseDataInvalid
	CodeNoMrnDetails           = ErrCodeNoMrnDetails
	CodeOfficeNotFound         = ErrCodeOfficeNotFound
	CodeDefaultOfficeMissing   = ErrCodeDefaultOfficeMissing
	CodeDefaultOfficeAmbiguous = ErrCodeDefaultOfficeAmbiguous
	CodeBenefitUnsupported     = ErrCodeBenefitUnsupported
	CodeReferenceDataInvalid   = ErrCodeReferenceDataInvalid
	CodeCCDRequestFailed       = ErrCodeCCDRequestFailed
	CodeCCDUnexpectedStatus    = ErrCodeCCDUnexpectedStatus
	CodeCCDDecodeFailed        = ErrCodeCCDDecodeFailed
)

// ErrorCodeHTTPStatus maps codes to the HTTP status a gateway would answer with.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeCaseNotFound:    http.StatusNotFound,
	ErrCodeCaseDataInvalid: http.StatusUnprocessableEntity,
	ErrCodeNoMrnDetails:    http.StatusUnprocessableEntity,

	ErrCodeOfficeNotFound:         http.StatusNotFound,
	ErrCodeDefaultOfficeMissing:   http.StatusInternalServerError,
	ErrCodeDefaultOfficeAmbiguous: http.StatusInternalServerError,
	ErrCodeBenefitUnsupported:     http.StatusBadRequest,
	ErrCodeReferenceDataInvalid:   http.StatusInternalServerError,

	ErrCodeCCDRequestFailed:    http.StatusBadGateway,
	ErrCodeCCDUnexpectedStatus: http.StatusBadGateway,
	ErrCodeCCDDecodeFailed:     http.StatusBadGateway,
}

// ErrorCodeMessage holds default messages per code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeNotFound:           "not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",

	ErrCodeCaseNotFound:    "case not found",
	ErrCodeCaseDataInvalid: "invalid case data",
	ErrCodeNoMrnDetails:    "no MRN details on appeal",

	ErrCodeOfficeNotFound:         "DWP office not found",
	ErrCodeDefaultOfficeMissing:   "no default DWP office for benefit",
	ErrCodeDefaultOfficeAmbiguous: "more than one default DWP office for benefit",
	ErrCodeBenefitUnsupported:     "benefit type not supported",
	ErrCodeReferenceDataInvalid:   "DWP office reference data invalid",

	ErrCodeCCDRequestFailed:    "case store request failed",
	ErrCodeCCDUnexpectedStatus: "case store returned unexpected status",
	ErrCodeCCDDecodeFailed:     "failed to decode case store response",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether code maps to a 5xx status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of code ("DWP" for "DWP_001").
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
