// Package errors provides standardized error types for nginxmgr.
//
// Every failure surfaced to a user falls into one of a small set of
// categories that map onto how the tool reacts:
//
//   - VALIDATION: bad user input, caught before any mutation
//   - CONFLICT: a site for the domain already exists
//   - NOT_FOUND: operating on a domain with no config file
//   - EXTERNAL: nginx -t, reload, or certbot returned failure
//   - CONFIG: the settings file could not be read or parsed
//   - PERMISSION: root privileges required
//   - INTERNAL: unexpected failure
//
// Creating errors:
//
//	return errors.NotFound("example.com")
//	return errors.Conflict("example.com")
//	return errors.Validation("port must be between 1 and 65535")
//	return errors.External("nginx config test failed", err)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrSiteNotFound) { ... }
//
//	var siteErr *errors.SiteError
//	if errors.As(err, &siteErr) {
//	    fmt.Println(siteErr.Code, siteErr.Domain)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for the error categories the tool distinguishes.
const (
	ErrCodeValidation ErrorCode = "VALIDATION" // Input validation failed
	ErrCodeConflict   ErrorCode = "CONFLICT"   // Site already exists
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"  // Site not found
	ErrCodeExternal   ErrorCode = "EXTERNAL"   // External tool (nginx, certbot) failed
	ErrCodeConfig     ErrorCode = "CONFIG"     // Settings file error
	ErrCodePermission ErrorCode = "PERMISSION" // Permission denied
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Internal/unexpected error
)

// SiteError represents a structured error with context about the operation.
type SiteError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Domain name (if applicable)
	Output  string    // Captured output of a failed external command
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	if e.Domain != "" && e.Err != nil {
		return fmt.Sprintf("site %s: %s: %v", e.Domain, e.Message, e.Err)
	}
	if e.Domain != "" {
		return fmt.Sprintf("site %s: %s", e.Domain, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *SiteError) Is(target error) bool {
	t, ok := target.(*SiteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common scenarios. Use with errors.Is().
var (
	// ErrSiteNotFound indicates the requested site has no config file.
	ErrSiteNotFound = &SiteError{Code: ErrCodeNotFound, Message: "site not found"}

	// ErrSiteExists indicates a config file for the domain already exists.
	ErrSiteExists = &SiteError{Code: ErrCodeConflict, Message: "site already exists"}

	// ErrInvalidInput indicates user input failed validation.
	ErrInvalidInput = &SiteError{Code: ErrCodeValidation, Message: "invalid input"}

	// ErrExternalTool indicates an external command returned failure.
	ErrExternalTool = &SiteError{Code: ErrCodeExternal, Message: "external tool failed"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &SiteError{Code: ErrCodePermission, Message: "root privileges required, run with sudo"}

	// ErrSettingsInvalid indicates the settings file is invalid or unreadable.
	ErrSettingsInvalid = &SiteError{Code: ErrCodeConfig, Message: "invalid settings"}
)

// NotFound creates an error for a site that doesn't exist.
func NotFound(domain string) error {
	return &SiteError{
		Code:    ErrCodeNotFound,
		Message: "site not found",
		Domain:  domain,
	}
}

// Conflict creates an error for a site that already exists.
func Conflict(domain string) error {
	return &SiteError{
		Code:    ErrCodeConflict,
		Message: "site already exists",
		Domain:  domain,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &SiteError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &SiteError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// External creates an error for a failed external command. The captured
// combined output is kept so callers can show it verbatim.
func External(msg string, err error, output ...string) error {
	e := &SiteError{
		Code:    ErrCodeExternal,
		Message: msg,
		Err:     err,
	}
	if len(output) > 0 {
		e.Output = output[0]
	}
	return e
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &SiteError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapDomain creates an error with domain context and underlying error.
func WrapDomain(code ErrorCode, domain string, msg string, err error) error {
	return &SiteError{
		Code:    code,
		Message: msg,
		Domain:  domain,
		Err:     err,
	}
}

// CommandOutput returns the captured external command output in err's chain,
// or "" if there is none.
func CommandOutput(err error) string {
	var siteErr *SiteError
	if errors.As(err, &siteErr) {
		return siteErr.Output
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
