// Package apperror структурированные ошибки приложения: код, серьёзность,
// детали и конвертация в gRPC статусы.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode машинно-читаемый код ошибки
type ErrorCode string

const (
	// Валидация графа
	CodeInvalidGraph     ErrorCode = "INVALID_GRAPH"
	CodeEmptyGraph       ErrorCode = "EMPTY_GRAPH"
	CodeInvalidSource    ErrorCode = "INVALID_SOURCE"
	CodeInvalidSink      ErrorCode = "INVALID_SINK"
	CodeDanglingEdge     ErrorCode = "DANGLING_EDGE"
	CodeSelfLoop         ErrorCode = "SELF_LOOP"
	CodeNegativeCapacity ErrorCode = "NEGATIVE_CAPACITY"
	CodeSourceEqualsSink ErrorCode = "SOURCE_EQUALS_SINK"

	// Связность
	CodeNoPath            ErrorCode = "NO_PATH"
	CodeDisconnectedGraph ErrorCode = "DISCONNECTED_GRAPH"
	CodeIsolatedNode      ErrorCode = "ISOLATED_NODE"

	// Расчёт
	CodeTimeout        ErrorCode = "TIMEOUT"
	CodeIterationLimit ErrorCode = "ITERATION_LIMIT"
	CodePartialResult  ErrorCode = "PARTIAL_RESULT"

	// Проверка потока
	CodeCapacityOverflow      ErrorCode = "CAPACITY_OVERFLOW"
	CodeConservationViolation ErrorCode = "CONSERVATION_VIOLATION"
	CodeUnattributedFlow      ErrorCode = "UNATTRIBUTED_FLOW"

	// Общие
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNilInput        ErrorCode = "NIL_INPUT"
	CodeReportFailed    ErrorCode = "REPORT_FAILED"
)

// Severity уровень серьёзности ошибки
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// Error ошибка приложения с кодом и контекстом
type Error struct {
	Code     ErrorCode
	Message  string
	Field    string // поле входных данных, вызвавшее ошибку
	Details  map[string]any
	Cause    error
	Severity Severity
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New создаёт ошибку с уровнем SeverityError
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// NewWithField создаёт ошибку, привязанную к полю входных данных
func NewWithField(code ErrorCode, message, field string) *Error {
	return New(code, message).WithField(field)
}

// NewWarning создаёт ошибку-предупреждение
func NewWarning(code ErrorCode, message string) *Error {
	return New(code, message).WithSeverity(SeverityWarning)
}

// NewCritical создаёт критическую ошибку
func NewCritical(code ErrorCode, message string) *Error {
	return New(code, message).WithSeverity(SeverityCritical)
}

// Wrap оборачивает причину в ошибку приложения
func Wrap(cause error, code ErrorCode, message string) *Error {
	err := New(code, message)
	err.Cause = cause
	return err
}

// WithDetails добавляет пару ключ-значение в детали
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// WithField привязывает ошибку к полю входных данных
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithSeverity меняет уровень серьёзности
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is проверяет, что err это ошибка приложения с указанным кодом
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// Code извлекает код из ошибки; для посторонних ошибок возвращает CodeInternal
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsWarning проверяет уровень SeverityWarning
func IsWarning(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Severity == SeverityWarning
}

// IsCritical проверяет уровень SeverityCritical
func IsCritical(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Severity == SeverityCritical
}

// grpcByCode отображение кодов приложения на коды gRPC;
// отсутствующие коды считаются codes.Internal
var grpcByCode = map[ErrorCode]codes.Code{
	CodeInvalidGraph:     codes.InvalidArgument,
	CodeEmptyGraph:       codes.InvalidArgument,
	CodeInvalidSource:    codes.InvalidArgument,
	CodeInvalidSink:      codes.InvalidArgument,
	CodeDanglingEdge:     codes.InvalidArgument,
	CodeSelfLoop:         codes.InvalidArgument,
	CodeNegativeCapacity: codes.InvalidArgument,
	CodeSourceEqualsSink: codes.InvalidArgument,
	CodeInvalidArgument:  codes.InvalidArgument,
	CodeNilInput:         codes.InvalidArgument,

	CodeNoPath:            codes.FailedPrecondition,
	CodeDisconnectedGraph: codes.FailedPrecondition,
	CodeIsolatedNode:      codes.FailedPrecondition,

	CodeNotFound: codes.NotFound,

	CodeTimeout:        codes.DeadlineExceeded,
	CodeIterationLimit: codes.DeadlineExceeded,

	CodePartialResult: codes.Aborted,

	CodeCapacityOverflow:      codes.DataLoss,
	CodeConservationViolation: codes.DataLoss,
	CodeUnattributedFlow:      codes.DataLoss,
}

// GRPCStatus конвертирует ошибку в gRPC статус
func (e *Error) GRPCStatus() *status.Status {
	code, ok := grpcByCode[e.Code]
	if !ok {
		code = codes.Internal
	}
	return status.New(code, e.Message)
}

// ToGRPC конвертирует любую ошибку в gRPC ошибку
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GRPCStatus().Err()
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, err.Error())
}

// FromGRPC восстанавливает ошибку приложения из gRPC ошибки
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return New(CodeInternal, err.Error())
	}

	code := CodeInternal
	switch st.Code() {
	case codes.InvalidArgument:
		code = CodeInvalidArgument
	case codes.NotFound:
		code = CodeNotFound
	case codes.DeadlineExceeded:
		code = CodeTimeout
	case codes.FailedPrecondition:
		code = CodeNoPath
	}
	return New(code, st.Message())
}

// ValidationErrors накопитель результатов проверок: ошибки и предупреждения отдельно
type ValidationErrors struct {
	Errors   []*Error
	Warnings []*Error
}

// NewValidationErrors создаёт пустой накопитель
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add раскладывает ошибку по серьёзности
func (v *ValidationErrors) Add(err *Error) {
	if err.Severity == SeverityWarning {
		v.Warnings = append(v.Warnings, err)
		return
	}
	v.Errors = append(v.Errors, err)
}

// AddError добавляет ошибку с уровнем SeverityError
func (v *ValidationErrors) AddError(code ErrorCode, message string) {
	v.Errors = append(v.Errors, New(code, message))
}

// AddWarning добавляет предупреждение
func (v *ValidationErrors) AddWarning(code ErrorCode, message string) {
	v.Warnings = append(v.Warnings, NewWarning(code, message))
}

// AddErrorWithField добавляет ошибку, привязанную к полю
func (v *ValidationErrors) AddErrorWithField(code ErrorCode, message, field string) {
	v.Errors = append(v.Errors, NewWithField(code, message, field))
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) HasWarnings() bool {
	return len(v.Warnings) > 0
}

// IsValid предупреждения не влияют на валидность
func (v *ValidationErrors) IsValid() bool {
	return !v.HasErrors()
}

// Merge переносит содержимое другого накопителя в текущий
func (v *ValidationErrors) Merge(other *ValidationErrors) {
	if other == nil {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
}

// ErrorMessages сообщения всех ошибок
func (v *ValidationErrors) ErrorMessages() []string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// WarningMessages сообщения всех предупреждений
func (v *ValidationErrors) WarningMessages() []string {
	messages := make([]string, len(v.Warnings))
	for i, warn := range v.Warnings {
		messages[i] = warn.Message
	}
	return messages
}
