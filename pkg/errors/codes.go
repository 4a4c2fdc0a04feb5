package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes follow the "<MODULE>_<NNN>" convention.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
)

// Chart Module Error Codes
const (
	ErrCodeInvalidLongitude ErrorCode = "CHART_001"
	ErrCodeInvalidHouse     ErrorCode = "CHART_002"
	ErrCodeMissingBody      ErrorCode = "CHART_003"
	ErrCodeInvalidBirthTime ErrorCode = "CHART_004"
	ErrCodeChartParseFailed ErrorCode = "CHART_005"
)

// Dasha Module Error Codes
const (
	ErrCodeInvalidCycleTable     ErrorCode = "DASHA_001"
	ErrCodeInvalidPeriodRequest  ErrorCode = "DASHA_002"
	ErrCodePeriodOutOfRange      ErrorCode = "DASHA_003"
	ErrCodeSystemNotApplicable   ErrorCode = "DASHA_004"
	ErrCodeUnknownSystem         ErrorCode = "DASHA_005"
	ErrCodeInvalidJunctionPolicy ErrorCode = "DASHA_006"
)

// Matchmaking Module Error Codes
const (
	ErrCodeInvalidProfile ErrorCode = "MATCH_001"
)

// Transit Module Error Codes
const (
	ErrCodeInvalidTransit ErrorCode = "TRANSIT_001"
)

// Aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeValidation   = ErrCodeValidation
	CodeCacheError   = ErrCodeCacheError
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	CodeInvalidLongitude    = ErrCodeInvalidLongitude
	CodeInvalidHouse        = ErrCodeInvalidHouse
	CodeMissingBody         = ErrCodeMissingBody
	CodeInvalidBirthTime    = ErrCodeInvalidBirthTime
	CodePeriodOutOfRange    = ErrCodePeriodOutOfRange
	CodeSystemNotApplicable = ErrCodeSystemNotApplicable
)

// recoverableCodes are failures the caller can fix by changing the request
// (more cycles, another system) rather than the input data.
var recoverableCodes = map[ErrorCode]bool{
	ErrCodePeriodOutOfRange:    true,
	ErrCodeSystemNotApplicable: true,
	ErrCodeNotFound:            true,
	ErrCodeCacheError:          true,
	ErrCodeServiceUnavailable:  true,
}

// inputCodes are failures caused by malformed caller input.
var inputCodes = map[ErrorCode]bool{
	ErrCodeBadRequest:            true,
	ErrCodeValidation:            true,
	ErrCodeInvalidLongitude:      true,
	ErrCodeInvalidHouse:          true,
	ErrCodeMissingBody:           true,
	ErrCodeInvalidBirthTime:      true,
	ErrCodeChartParseFailed:      true,
	ErrCodeInvalidCycleTable:     true,
	ErrCodeInvalidPeriodRequest:  true,
	ErrCodeUnknownSystem:         true,
	ErrCodeInvalidJunctionPolicy: true,
	ErrCodeInvalidProfile:        true,
	ErrCodeInvalidTransit:        true,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",

	ErrCodeInvalidLongitude: "longitude outside [0,360)",
	ErrCodeInvalidHouse:     "house outside [1,12]",
	ErrCodeMissingBody:      "chart is missing a required body",
	ErrCodeInvalidBirthTime: "invalid birth timestamp",
	ErrCodeChartParseFailed: "failed to parse chart document",

	ErrCodeInvalidCycleTable:     "invalid cycle table",
	ErrCodeInvalidPeriodRequest:  "invalid period request",
	ErrCodePeriodOutOfRange:      "instant outside computed periods",
	ErrCodeSystemNotApplicable:   "dasha system not applicable to chart",
	ErrCodeUnknownSystem:         "unknown dasha system",
	ErrCodeInvalidJunctionPolicy: "invalid junction policy",

	ErrCodeInvalidProfile: "invalid compatibility profile",

	ErrCodeInvalidTransit: "invalid transit input",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsRecoverable reports whether the caller can recover by adjusting the
// request parameters.
func IsRecoverable(code ErrorCode) bool {
	return recoverableCodes[code]
}

// IsInputError reports whether the code denotes malformed caller input.
func IsInputError(code ErrorCode) bool {
	return inputCodes[code]
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
