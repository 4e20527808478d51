package templates

import (
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
)

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	CSRFToken string
}

// NavbarProps describes the signed-in user shown in the navigation bar.
// A zero value renders the anonymous navbar.
type NavbarProps struct {
	DisplayName string
	IsAdmin     bool
}

// ErrorPageProps contains properties for the error page
type ErrorPageProps struct {
	BaseProps
	Error   string
	Message string
}

// LoginPageProps contains properties for the login page
type LoginPageProps struct {
	BaseProps
	Error    string
	Login    string
	Redirect string
}

// PermissionOption is one checkbox on the consent page.
type PermissionOption struct {
	Permission models.Permission
	Checked    bool
}

// AuthorizePageProps contains properties for the consent page
type AuthorizePageProps struct {
	BaseProps
	NavbarProps
	ClientName  string
	Token       string
	Permissions []PermissionOption
}

// AuthorizeSuccessPageProps is shown after approval when there is nowhere
// to redirect to. Verifier is empty for OAuth 1.0 tokens.
type AuthorizeSuccessPageProps struct {
	NavbarProps
	ClientName string
	Verifier   string
}

// AuthorizeFailurePageProps carries the single message of the failure page.
type AuthorizeFailurePageProps struct {
	NavbarProps
	Message string
}

// ClientsPageProps lists the applications a user has authorized
type ClientsPageProps struct {
	BaseProps
	NavbarProps
	Clients []services.AuthorizedClient
	Success string
}
