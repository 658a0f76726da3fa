package errors

import "net/http"

// ErrorCode identifies a specific failure category. Codes are stable strings
// so they can be logged, matched in tests, and returned in API bodies.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
)

// Request lifecycle error codes.
const (
	// ErrCodeRequestNotFound: no request exists for the given reference number.
	ErrCodeRequestNotFound ErrorCode = "REQ_001"

	// ErrCodeStateConflict: an illegal status transition was attempted. The
	// underlying record is left unchanged.
	ErrCodeStateConflict ErrorCode = "REQ_002"

	// ErrCodeAppealExists: an appeal record already exists for the request.
	ErrCodeAppealExists ErrorCode = "REQ_003"

	// ErrCodeLockHeld: the per-request lifecycle lock could not be acquired.
	ErrCodeLockHeld ErrorCode = "REQ_004"
)

// Classification and routing error codes.
const (
	ErrCodeCatalogLoadFailed ErrorCode = "CLS_001"
	ErrCodeCategoryUnknown   ErrorCode = "CLS_002"
	ErrCodeOfficeUnknown     ErrorCode = "RTE_001"
)

// Drafting error codes.
const (
	// ErrCodeStructuralValidation: the assembled document is missing a
	// mandatory clause. No lifecycle record may be created from it.
	ErrCodeStructuralValidation ErrorCode = "DOC_001"

	// ErrCodeGenerationFailed: the text-generation collaborator returned an
	// unusable result. Callers fall back to the template generator.
	ErrCodeGenerationFailed ErrorCode = "DOC_002"
)

// Filing gateway error codes.
const (
	ErrCodeGatewayFailed  ErrorCode = "GWY_001"
	ErrCodeGatewayTimeout ErrorCode = "GWY_002"
)

const (
	// CodeOK is returned by GetCode on a nil error.
	CodeOK ErrorCode = "OK"

	// CodeUnknown is returned by GetCode when no AppError is in the chain.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// HTTPStatus maps an ErrorCode to the HTTP status the API layer should emit.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeStructuralValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeRequestNotFound, ErrCodeCategoryUnknown, ErrCodeOfficeUnknown:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeStateConflict, ErrCodeAppealExists, ErrCodeLockHeld:
		return http.StatusConflict
	case ErrCodeTimeout, ErrCodeGatewayTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeExternalService, ErrCodeGatewayFailed, ErrCodeServiceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
