package errors

// ErrorCode identifies an application error category. Codes are stable and
// returned to clients, so renumbering is a breaking change.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1006

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_INVALID_API_KEY       ErrorCode = 2002
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2003

	// Meetings / transcripts
	ErrorCode_MEETING_NOT_FOUND      ErrorCode = 3000
	ErrorCode_MEETING_INVALID_STATE  ErrorCode = 3001
	ErrorCode_TRANSCRIPT_NOT_FOUND   ErrorCode = 3002
	ErrorCode_TRANSCRIPT_TOO_SHORT   ErrorCode = 3003
	ErrorCode_TRANSCRIPT_FETCH_ERROR ErrorCode = 3004
	ErrorCode_MISSING_TRANSCRIPT     ErrorCode = 3005

	// Minutes generation
	ErrorCode_MINUTES_NOT_FOUND         ErrorCode = 4000
	ErrorCode_MINUTES_ALREADY_GENERATED ErrorCode = 4001
	ErrorCode_MINUTES_GENERATION_FAILED ErrorCode = 4002
	ErrorCode_LLM_UNAVAILABLE           ErrorCode = 4003
	ErrorCode_LLM_BAD_RESPONSE          ErrorCode = 4004
	ErrorCode_TRANSCRIPTION_FAILED      ErrorCode = 4005

	// Dispatch / integrations
	ErrorCode_DISPATCH_FAILED            ErrorCode = 5000
	ErrorCode_DISPATCH_INVALID_CHANNEL   ErrorCode = 5001
	ErrorCode_INTEGRATION_JIRA_FAILED    ErrorCode = 5002
	ErrorCode_INTEGRATION_SLACK_FAILED   ErrorCode = 5003
	ErrorCode_INTEGRATION_EMAIL_FAILED   ErrorCode = 5004
	ErrorCode_INTEGRATION_INVITE_FAILED  ErrorCode = 5005
	ErrorCode_INTEGRATION_NOT_CONFIGURED ErrorCode = 5006

	// Infrastructure
	ErrorCode_DB_QUERY_FAILED        ErrorCode = 6000
	ErrorCode_DB_TRANSACTION_FAILED  ErrorCode = 6001
	ErrorCode_INTEGRATION_CACHE_FAIL ErrorCode = 6002
	ErrorCode_STORAGE_FAILED         ErrorCode = 6003
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_API_KEY:       "AUTH_INVALID_API_KEY",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_MEETING_INVALID_STATE:      "MEETING_INVALID_STATE",
	ErrorCode_TRANSCRIPT_NOT_FOUND:       "TRANSCRIPT_NOT_FOUND",
	ErrorCode_TRANSCRIPT_TOO_SHORT:       "TRANSCRIPT_TOO_SHORT",
	ErrorCode_TRANSCRIPT_FETCH_ERROR:     "TRANSCRIPT_FETCH_ERROR",
	ErrorCode_MISSING_TRANSCRIPT:         "MISSING_TRANSCRIPT",
	ErrorCode_MINUTES_NOT_FOUND:          "MINUTES_NOT_FOUND",
	ErrorCode_MINUTES_ALREADY_GENERATED:  "MINUTES_ALREADY_GENERATED",
	ErrorCode_MINUTES_GENERATION_FAILED:  "MINUTES_GENERATION_FAILED",
	ErrorCode_LLM_UNAVAILABLE:            "LLM_UNAVAILABLE",
	ErrorCode_LLM_BAD_RESPONSE:           "LLM_BAD_RESPONSE",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_DISPATCH_FAILED:            "DISPATCH_FAILED",
	ErrorCode_DISPATCH_INVALID_CHANNEL:   "DISPATCH_INVALID_CHANNEL",
	ErrorCode_INTEGRATION_JIRA_FAILED:    "INTEGRATION_JIRA_FAILED",
	ErrorCode_INTEGRATION_SLACK_FAILED:   "INTEGRATION_SLACK_FAILED",
	ErrorCode_INTEGRATION_EMAIL_FAILED:   "INTEGRATION_EMAIL_FAILED",
	ErrorCode_INTEGRATION_INVITE_FAILED:  "INTEGRATION_INVITE_FAILED",
	ErrorCode_INTEGRATION_NOT_CONFIGURED: "INTEGRATION_NOT_CONFIGURED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:      "DB_TRANSACTION_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAIL:     "INTEGRATION_CACHE_FAIL",
	ErrorCode_STORAGE_FAILED:             "STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
