package exceptions

import (
	"errors"
	"fmt"
	"runtime"
	"telemed-service/internal/pkg/constvars"
)

type CustomError struct {
	StatusCode    int                    `json:"status_code"`
	Success       bool                   `json:"success"`
	ClientMessage string                 `json:"message"`
	Kind          string                 `json:"kind,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	DevMessage    string                 `json:"dev_message,omitempty"`
	Locations     []Location             `json:"locations,omitempty"`
	Err           error                  `json:"-"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithKind sets the error kind reported to clients.
func (e *CustomError) WithKind(kind string) *CustomError {
	e.Kind = kind
	return e
}

func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for key, value := range details {
		e.Details[key] = value
	}
	return e
}

// BuildNewCustomError wraps err with the caller location. When err already carries
// locations they are kept after the new one so the full trail reaches the logs.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	customErr := &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(3)},
		Err:           err,
	}
	if err == nil {
		return customErr
	}

	customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	var inner *CustomError
	if errors.As(err, &inner) {
		customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, inner.DevMessage)
		customErr.Locations = append(customErr.Locations, inner.Locations...)
	}
	return customErr
}

// KindOf returns the kind of the outermost CustomError in err's chain.
func KindOf(err error) string {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return ""
}

func IsKind(err error, kind string) bool {
	var customErr *CustomError
	for err != nil {
		if !errors.As(err, &customErr) {
			return false
		}
		if customErr.Kind == kind {
			return true
		}
		err = customErr.Err
	}
	return false
}

// UpstreamStatus returns the provider HTTP status recorded on an upstream error.
func UpstreamStatus(err error) (int, bool) {
	var customErr *CustomError
	for err != nil {
		if !errors.As(err, &customErr) {
			return 0, false
		}
		if status, ok := customErr.Details[DetailProviderStatus].(int); ok {
			return status, true
		}
		err = customErr.Err
	}
	return 0, false
}

// UpstreamProvider returns the provider named on an upstream error, or "" for
// errors raised on this side.
func UpstreamProvider(err error) string {
	var customErr *CustomError
	for err != nil {
		if !errors.As(err, &customErr) {
			return ""
		}
		if provider, ok := customErr.Details[DetailProvider].(string); ok && provider != "" {
			return provider
		}
		err = customErr.Err
	}
	return ""
}

func IsUpstreamStatus(err error, statusCodes ...int) bool {
	status, ok := UpstreamStatus(err)
	if !ok {
		return false
	}
	for _, code := range statusCodes {
		if status == code {
			return true
		}
	}
	return false
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
