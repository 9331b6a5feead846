package httpx

// Page identifiers used in templates and navigation.
const (
	PageSignIn    = "signin"
	PageAuthError = "auth-error"
	PageDashboard = "dashboard"
	PageQueue     = "queue"
	PageCommands  = "commands"
	PageNotFound  = "not-found"
	PageError     = "error"

	PageMatchingQuality = "matching-quality"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// ContentTemplateFor maps a page identifier to the template that renders its main content.
func ContentTemplateFor(page string) string {
	switch page {
	case PageSignIn, PageAuthError, PageDashboard, PageQueue, PageCommands, PageMatchingQuality, PageNotFound:
		return "page-" + page
	default:
		return "page-" + PageError
	}
}

// chromeless pages render without the navbar.
func chromeless(page string) bool {
	return page == PageSignIn || page == PageAuthError
}
