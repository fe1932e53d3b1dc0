package core

// error_messages.go maps technical errors to user-facing messages with codes
// that users can quote to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large           Patterns: "file too large", "request body too large"
//	FILE002 - Unsupported file type    Patterns: "unsupported file type"
//	FILE003 - Invalid CSV              Patterns: "invalid csv"
//	FILE004 - Invalid workbook         Patterns: "invalid workbook", "sheet not found"
//	FILE005 - No file                  Patterns: "no file provided"
//	FILE006 - Empty file               Patterns: "empty file"
//	FILE007 - Invalid JSON records     Patterns: "invalid json"
//
// # Cleaning Errors (CLN001-CLN099)
//
//	CLN001 - Threshold out of range    Sentinel: ErrInvalidThreshold
//	CLN002 - Column name collision     Sentinel: ErrColumnNameCollision
//	CLN003 - Malformed table           Sentinel: ErrInvalidTable
//
// # Job Errors (JOB001-JOB099)
//
//	JOB001 - System busy               Sentinel: ErrTooManyJobs
//	JOB002 - Result expired            Sentinel: ErrJobNotFound
//	JOB003 - Request cancelled         Sentinel: context.Canceled
//	JOB004 - Request timed out         Sentinel: context.DeadlineExceeded
//	JOB005 - Unknown artifact          Sentinel: ErrUnknownArtifact
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Loading disabled           Sentinel: ErrLoadDisabled
//	DB002 - Table exists               Patterns: "already exists"
//	DB003 - Connection refused         Patterns: "connection refused"
//	DB004 - Connection reset           Patterns: "connection reset"
//	DB005 - Invalid table name         Sentinel: ErrInvalidTableName
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests        Patterns: "rate limit"
//
// ERR000 is the fallback. When users report it, check the logs for the
// technical error logged alongside the request ID.
//
// Sentinels are matched with errors.Is before any pattern; patterns are
// matched case-insensitively with strings.Contains and the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// UserMessage is user-facing error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
	Status  int    // Suggested HTTP status
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrInvalidThreshold, UserMessage{"The inference threshold must be between 0 and 1", "Choose a threshold such as 0.90", "CLN001", http.StatusBadRequest}},
	{ErrColumnNameCollision, UserMessage{"Two columns would get the same cleaned name", "Rename one of the conflicting column headers and upload again", "CLN002", http.StatusUnprocessableEntity}},
	{ErrInvalidTable, UserMessage{"The table has an inconsistent shape", "Check that every row has the same number of columns", "CLN003", http.StatusUnprocessableEntity}},
	{ErrTooManyJobs, UserMessage{"System is busy cleaning other files", "Please wait a moment and try again", "JOB001", http.StatusServiceUnavailable}},
	{ErrJobNotFound, UserMessage{"Cleaning result not found", "Results expire after a while. Please upload the file again", "JOB002", http.StatusNotFound}},
	{ErrUnknownArtifact, UserMessage{"Unknown download", "Choose one of the listed downloads", "JOB005", http.StatusNotFound}},
	{context.Canceled, UserMessage{"Request was cancelled", "Please try again", "JOB003", http.StatusRequestTimeout}},
	{context.DeadlineExceeded, UserMessage{"Request timed out", "Try a smaller file or try again later", "JOB004", http.StatusGatewayTimeout}},
	{ErrLoadDisabled, UserMessage{"Database loading is not configured", "Download the load-ready file instead", "DB001", http.StatusServiceUnavailable}},
	{ErrInvalidTableName, UserMessage{"Invalid target table name", "Use letters, digits and underscores", "DB005", http.StatusBadRequest}},
}

var errorPatterns = []errorPattern{
	// File intake
	{"file too large", UserMessage{"File exceeds the maximum size limit", "Split the file into smaller parts", "FILE001", http.StatusRequestEntityTooLarge}},
	{"request body too large", UserMessage{"File exceeds the maximum size limit", "Split the file into smaller parts", "FILE001", http.StatusRequestEntityTooLarge}},
	{"unsupported file type", UserMessage{"This file type is not supported", "Upload a .csv, .xlsx or .json file", "FILE002", http.StatusUnsupportedMediaType}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Ensure the file is comma-separated with a header row", "FILE003", http.StatusBadRequest}},
	{"invalid workbook", UserMessage{"File is not a readable Excel workbook", "Re-save the file as .xlsx and try again", "FILE004", http.StatusBadRequest}},
	{"sheet not found", UserMessage{"The requested sheet does not exist", "Check the sheet name or leave it blank to use the first sheet", "FILE004", http.StatusBadRequest}},
	{"no file provided", UserMessage{"No file was selected", "Please select a file to clean", "FILE005", http.StatusBadRequest}},
	{"empty file", UserMessage{"The uploaded file has no header row", "Upload a file with a header and data rows", "FILE006", http.StatusBadRequest}},
	{"invalid json", UserMessage{"File is not a JSON array of records", "Upload a JSON array of objects", "FILE007", http.StatusBadRequest}},

	// Database load target
	{"already exists", UserMessage{"A table with this name already exists", "Choose another table name", "DB002", http.StatusConflict}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB003", http.StatusServiceUnavailable}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB004", http.StatusServiceUnavailable}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001", http.StatusTooManyRequests}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError converts a technical error to a user-facing message.
//
//	msg := MapError(fmt.Errorf("clean: %w", ErrColumnNameCollision))
//	// msg.Code == "CLN002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Msg
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError carries a ready-made user message alongside the technical cause.
type UserError struct {
	Msg   UserMessage
	Cause error
}

// NewUserError wraps cause with an explicit user message.
func NewUserError(msg UserMessage, cause error) *UserError {
	return &UserError{Msg: msg, Cause: cause}
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Msg.Message
}

func (e *UserError) Unwrap() error { return e.Cause }
