package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so page bodies read as a
// straight sequence of writes.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// rawf formats with every argument HTML-escaped.
func (h *htmlWriter) rawf(format string, args ...string) {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = templ.EscapeString(a)
	}
	h.raw(fmt.Sprintf(format, escaped...))
}

func (h *htmlWriter) csrf(token string) {
	h.rawf(`<input type="hidden" name="csrf_token" value="%s">`, token)
}

func page(title string, nav NavbarProps, csrfToken string, body func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.rawf("<title>%s</title></head><body>", title)
		navbar(h, nav, csrfToken)
		h.raw("<main>")
		body(h)
		h.raw("</main></body></html>\n")
		return h.err
	})
}

func navbar(h *htmlWriter, nav NavbarProps, csrfToken string) {
	h.raw(`<nav>`)
	if nav.DisplayName == "" {
		h.raw(`<a href="/login">Log in</a>`)
	} else {
		h.rawf(`<span class="user">%s</span> `, nav.DisplayName)
		h.rawf(`<a href="/user/%s/oauth_clients">Authorized applications</a> `, url.PathEscape(nav.DisplayName))
		h.raw(`<form method="post" action="/logout">`)
		h.csrf(csrfToken)
		h.raw(`<button type="submit">Log out</button></form>`)
	}
	h.raw(`</nav>`)
}

// ErrorPage renders a generic error.
func ErrorPage(props ErrorPageProps) templ.Component {
	return page("Error", NavbarProps{}, props.CSRFToken, func(h *htmlWriter) {
		h.rawf(`<h1>%s</h1>`, props.Error)
		if props.Message != "" {
			h.rawf(`<p>%s</p>`, props.Message)
		}
	})
}

// LoginPage renders the sign-in form.
func LoginPage(props LoginPageProps) templ.Component {
	return page("Log in", NavbarProps{}, props.CSRFToken, func(h *htmlWriter) {
		h.raw(`<h1>Log in</h1>`)
		if props.Error != "" {
			h.rawf(`<p class="error">%s</p>`, props.Error)
		}
		h.raw(`<form method="post" action="/login">`)
		h.csrf(props.CSRFToken)
		h.rawf(`<input type="hidden" name="redirect" value="%s">`, props.Redirect)
		h.rawf(`<label>Email or display name <input type="text" name="username" value="%s" autofocus></label>`, props.Login)
		h.raw(`<label>Password <input type="password" name="password"></label>`)
		h.raw(`<button type="submit">Log in</button></form>`)
	})
}

// AuthorizePage asks the user which permissions to grant. Submitting with
// nothing checked denies the request.
func AuthorizePage(props AuthorizePageProps) templ.Component {
	return page("Authorize access to your account", props.NavbarProps, props.CSRFToken, func(h *htmlWriter) {
		h.raw(`<h1>Authorize access to your account</h1>`)
		h.rawf(`<p>The application %s is requesting access to your account, %s. `+
			`Please check whether you would like the application to have the following capabilities. `+
			`You may choose as many or as few as you like.</p>`, props.ClientName, props.DisplayName)

		h.raw(`<form method="post" action="/oauth/authorize">`)
		h.csrf(props.CSRFToken)
		h.rawf(`<input type="hidden" name="oauth_token" value="%s">`, props.Token)
		h.raw(`<ul>`)
		for _, opt := range props.Permissions {
			checked := ""
			if opt.Checked {
				checked = " checked"
			}
			h.raw(`<li><label>`)
			h.rawf(`<input type="checkbox" name="allow_%s" value="1"`, string(opt.Permission))
			h.raw(checked + `> `)
			h.text(opt.Permission.Description())
			h.raw(`</label></li>`)
		}
		h.raw(`</ul><button type="submit">Grant Access</button></form>`)
	})
}

// AuthorizeSuccessPage confirms an approval that has no redirect target.
func AuthorizeSuccessPage(props AuthorizeSuccessPageProps) templ.Component {
	return page("Authorization successful", props.NavbarProps, "", func(h *htmlWriter) {
		h.rawf(`<p>You have allowed application %s access to your account.</p>`, props.ClientName)
		if props.Verifier != "" {
			h.rawf(`<p>The verification code is %s.</p>`, props.Verifier)
			h.raw(`<p>Enter this code in the application to finish authorization.</p>`)
		}
	})
}

// AuthorizeFailurePage shows a denial or an unusable token.
func AuthorizeFailurePage(props AuthorizeFailurePageProps) templ.Component {
	return page("Authorization failed", props.NavbarProps, "", func(h *htmlWriter) {
		h.rawf(`<p>%s</p>`, props.Message)
	})
}

// ClientsPage lists the applications the user has authorized, each with
// a revoke button per access token.
func ClientsPage(props ClientsPageProps) templ.Component {
	return page("Authorized applications", props.NavbarProps, props.CSRFToken, func(h *htmlWriter) {
		h.raw(`<h1>Authorized applications</h1>`)
		if props.Success != "" {
			h.rawf(`<p class="success">%s</p>`, props.Success)
		}
		if len(props.Clients) == 0 {
			h.raw(`<p>You have not authorized any applications yet.</p>`)
			return
		}
		h.raw(`<table><thead><tr><th>Application</th><th>Permissions</th><th>Authorized</th><th></th></tr></thead><tbody>`)
		for _, group := range props.Clients {
			for _, token := range group.Tokens {
				perms := make([]string, 0)
				for _, p := range token.Permissions.List() {
					perms = append(perms, p.Description())
				}
				authorized := ""
				if token.AuthorizedAt != nil {
					authorized = token.AuthorizedAt.Format("2006-01-02 15:04")
				}
				h.rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>`,
					group.Client.Name, strings.Join(perms, ", "), authorized)
				h.raw(`<form method="post" action="/oauth/revoke">`)
				h.csrf(props.CSRFToken)
				h.rawf(`<input type="hidden" name="token" value="%s">`, token.Token)
				h.raw(`<button type="submit">Revoke</button></form></td></tr>`)
			}
		}
		h.raw(`</tbody></table>`)
	})
}
