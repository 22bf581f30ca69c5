package httpx

import domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"

// LoginPageData feeds the login page template.
type LoginPageData struct {
	Title       string
	Actor       string
	RedirectURI string
	Error       string
}

// DashboardData feeds the role dashboard templates.
type DashboardData struct {
	Title    string
	Identity domainauth.Identity
}

// ErrorPageData feeds the error page template.
type ErrorPageData struct {
	Title   string
	Status  int
	Message string
}
