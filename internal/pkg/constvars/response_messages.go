package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// Error kinds returned to clients alongside the message.
const (
	ErrorKindValidation                  = "ValidationError"
	ErrorKindNotFound                    = "NotFoundError"
	ErrorKindConflict                    = "ConflictError"
	ErrorKindCompatibility               = "CompatibilityError"
	ErrorKindUpstreamEventualConsistency = "UpstreamEventualConsistencyError"
	ErrorKindUpstreamFatal               = "UpstreamFatalError"
	ErrorKindTimeout                     = "TimeoutError"
	ErrorKindUnauthorized                = "UnauthorizedError"
	ErrorKindForbidden                   = "ForbiddenError"
	ErrorKindInternal                    = "InternalError"
)
