package httputil

// Machine-readable error codes returned alongside error messages so
// clients can branch without parsing human-readable text.
const (
	CodeInternalError      = "internal_error"
	CodeInvalidRequestBody = "invalid_request_body"
	CodeTooManyRequests    = "too_many_requests"
	CodeCooldownActive     = "cooldown_active"

	// Auth
	CodeEmailRequired             = "email_required"
	CodePasswordRequired          = "password_required"
	CodePasswordTooShort          = "password_too_short"
	CodeInvalidEmailFormat        = "invalid_email_format"
	CodeEmailAlreadyExists        = "email_already_exists"
	CodeInvalidCredentials        = "invalid_credentials"
	CodeEmailNotVerified          = "email_not_verified"
	CodeRefreshTokenRequired      = "refresh_token_required"
	CodeInvalidRefreshToken       = "invalid_refresh_token"
	CodeVerificationTokenRequired = "verification_token_required"
	CodeVerificationFailed        = "verification_failed"
	CodeAlreadyVerified           = "already_verified"
	CodeTokenExpired              = "token_expired"
	CodeInvalidResetToken         = "invalid_reset_token"
	CodeUserNotFound              = "user_not_found"

	// Auth middleware
	CodeInvalidAuthHeader  = "invalid_auth_header"
	CodeMissingAuth        = "missing_auth"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidTokenUserID = "invalid_token_user_id"

	// Contacts
	CodeContactNotFound    = "contact_not_found"
	CodeContactEmailExists = "contact_email_exists"
	CodeValidationFailed   = "validation_failed"
	CodeInvalidQueryParam  = "invalid_query_param"
)
