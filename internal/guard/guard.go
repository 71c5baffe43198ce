// Package guard decides whether a navigation target may be entered
package guard

import "strings"

// Annotation keys carried on cobra commands to declare route metadata
const (
	AnnotationRequiresAuth = "redeemctl.requiresAuth"
	AnnotationTitle        = "redeemctl.title"
)

// LoginPath is the command an unauthenticated user is redirected to
const LoginPath = "login"

// DefaultTitle is shown when no command in the chain declares one
const DefaultTitle = "GiftRedeem"

// Meta is the declared metadata of one command in a navigation chain
type Meta struct {
	Name         string
	Title        string
	RequiresAuth bool
}

// Route is the resolved navigation target: the full command path, the
// most specific title, and the auth requirement aggregated over the
// whole chain (an authenticated parent makes every child authenticated).
type Route struct {
	Path         string
	Title        string
	RequiresAuth bool
}

// Decision is the outcome of a guard check
type Decision struct {
	Allowed  bool
	Redirect string // target when not allowed
	Return   string // originally intended path, preserved for after login
}

// Resolve collapses a command chain (root first) into a Route
func Resolve(chain []Meta) Route {
	var route Route
	var parts []string

	for _, m := range chain {
		if m.Name != "" {
			parts = append(parts, m.Name)
		}
		if m.Title != "" {
			route.Title = m.Title
		}
		if m.RequiresAuth {
			route.RequiresAuth = true
		}
	}

	route.Path = strings.Join(parts, " ")
	if route.Title == "" {
		route.Title = DefaultTitle
	}
	return route
}

// Check allows the navigation or redirects to login, carrying the
// intended path as the return parameter
func Check(route Route, authenticated bool) Decision {
	if route.RequiresAuth && !authenticated {
		return Decision{
			Allowed:  false,
			Redirect: LoginPath,
			Return:   route.Path,
		}
	}
	return Decision{Allowed: true}
}
