package apperror

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
)

// ErrorCode 는 CLI 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 내부 오류 코드다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation 는 검증 오류 코드다.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeInvalidSchema 는 알 수 없는 backend kind 코드다.
	ErrorCodeInvalidSchema ErrorCode = "INVALID_SCHEMA"
	// ErrorCodeInvalidInput 는 입력 오류 코드다.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeCanceled 는 취소 코드다.
	ErrorCodeCanceled ErrorCode = "CANCELED"
)

// 프로세스 종료 코드.
const (
	ExitInternal     = 1
	ExitUsage        = 2
	ExitInvalidInput = 3
	ExitCanceled     = 130
)

// ErrorResponse 는 stderr 로 출력되는 오류 본문이다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code     ErrorCode
	ExitCode int
	Type     string
	Message  string
	Details  map[string]any
	cause    error
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap 은 원인 오류를 반환한다.
func (e *Error) Unwrap() error {
	return e.cause
}

// Response 는 오류를 종료 코드와 오류 본문으로 변환한다.
func Response(err error) (int, ErrorResponse) {
	appErr := FromError(err)
	if appErr == nil {
		appErr = NewInternalError("unknown error")
	}

	return appErr.ExitCode, ErrorResponse{
		ErrorCode: string(appErr.Code),
		ErrorType: appErr.Type,
		Message:   appErr.Message,
		Details:   appErr.Details,
	}
}

// FromError 는 오류를 내부 오류 타입으로 변환한다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var schemaErr *classification.SchemaError
	if errors.As(err, &schemaErr) {
		return NewInvalidSchema(schemaErr)
	}

	if errors.Is(err, classification.ErrInvalidSchema) {
		return NewInvalidSchema(err)
	}

	if errors.Is(err, classification.ErrMalformedPayload) {
		return &Error{
			Code:     ErrorCodeInvalidInput,
			ExitCode: ExitInvalidInput,
			Type:     "MalformedPayloadError",
			Message:  err.Error(),
			cause:    err,
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Code:     ErrorCodeCanceled,
			ExitCode: ExitCanceled,
			Type:     "CanceledError",
			Message:  "Normalization canceled",
			cause:    err,
		}
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError 는 내부 오류를 생성한다.
func NewInternalError(message string) *Error {
	return &Error{
		Code:     ErrorCodeInternal,
		ExitCode: ExitInternal,
		Type:     "InternalError",
		Message:  message,
	}
}

// NewValidationError 는 검증 오류를 생성한다.
func NewValidationError(err error) *Error {
	return &Error{
		Code:     ErrorCodeValidation,
		ExitCode: ExitUsage,
		Type:     "ValidationError",
		Message:  "Configuration validation failed",
		Details:  validationDetails(err),
		cause:    err,
	}
}

// NewInvalidSchema 는 알 수 없는 kind 오류를 생성한다.
func NewInvalidSchema(err error) *Error {
	details := map[string]any{"supported": supportedKinds()}
	var schemaErr *classification.SchemaError
	if errors.As(err, &schemaErr) {
		details["kind"] = string(schemaErr.Kind)
	}
	return &Error{
		Code:     ErrorCodeInvalidSchema,
		ExitCode: ExitUsage,
		Type:     "InvalidSchemaError",
		Message:  err.Error(),
		Details:  details,
		cause:    err,
	}
}

// NewInvalidInput 는 입력 오류를 생성한다.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:     ErrorCodeInvalidInput,
		ExitCode: ExitInvalidInput,
		Type:     "InvalidInputError",
		Message:  message,
	}
}

// NewInputFailures 는 일부 입력 처리 실패 오류를 생성한다.
func NewInputFailures(failed int, total int) *Error {
	return &Error{
		Code:     ErrorCodeInvalidInput,
		ExitCode: ExitInvalidInput,
		Type:     "InvalidInputError",
		Message:  fmt.Sprintf("%d of %d inputs failed", failed, total),
		Details:  map[string]any{"failed": failed, "total": total},
	}
}

func supportedKinds() []string {
	return []string{string(classification.KindMultiLabel), string(classification.KindFixedVector)}
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Namespace(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "config",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
