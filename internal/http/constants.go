package httpx

// sessionCookieName is the browser cookie carrying the opaque session ID.
const sessionCookieName = "session_id"

// Form and JSON field names shared by the login handlers.
const (
	fieldActor                = "actor"
	fieldNumeroIdentificacion = "numero_identificacion"
	fieldEmail                = "email"
	fieldPassword             = "password"
	fieldRedirectURI          = "redirect_uri"
)
