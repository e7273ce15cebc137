// Package router maps a location fragment to a view. Pure dispatch:
// no state, no side effects, just fragment in, match out. An unknown
// fragment is navigational, never fatal; the caller redirects to the
// landing view.
package router

import "strings"

// View names every screen the router can dispatch to.
type View string

const (
	ViewLanding   View = "landing"
	ViewDashboard View = "dashboard"
	ViewCreate    View = "create"
	ViewMonitor   View = "monitor"
	ViewReview    View = "review"
	ViewJoin      View = "join"
	ViewCompose   View = "compose"
	ViewSubmitted View = "submitted"
)

// Match is a resolved route. Code is set only for routes that carry a
// session code segment, preserved in the case the fragment used.
type Match struct {
	View View
	Code string
}

// Resolve dispatches a location fragment to its view. Trailing
// slashes are tolerated.
func Resolve(fragment string) (Match, error) {
	trimmed := strings.Trim(fragment, "/")
	if trimmed == "" {
		return Match{View: ViewLanding}, nil
	}

	segments := strings.Split(trimmed, "/")

	switch segments[0] {
	case "teacher":
		return resolveTeacher(segments[1:])
	case "join":
		if len(segments) == 1 {
			return Match{View: ViewJoin}, nil
		}
	case "s":
		return resolveStudent(segments[1:])
	}
	return Match{}, ErrRouteNotFound
}

func resolveTeacher(rest []string) (Match, error) {
	switch {
	case len(rest) == 0:
		return Match{View: ViewDashboard}, nil
	case len(rest) == 1 && rest[0] == "create":
		return Match{View: ViewCreate}, nil
	case len(rest) == 2 && rest[0] == "monitor" && rest[1] != "":
		return Match{View: ViewMonitor, Code: rest[1]}, nil
	case len(rest) == 2 && rest[0] == "review" && rest[1] != "":
		return Match{View: ViewReview, Code: rest[1]}, nil
	}
	return Match{}, ErrRouteNotFound
}

func resolveStudent(rest []string) (Match, error) {
	switch {
	case len(rest) == 1 && rest[0] != "":
		return Match{View: ViewCompose, Code: rest[0]}, nil
	case len(rest) == 2 && rest[0] != "" && rest[1] == "submitted":
		return Match{View: ViewSubmitted, Code: rest[0]}, nil
	}
	return Match{}, ErrRouteNotFound
}

// Fragment builds the canonical location fragment for a view, the
// inverse of Resolve for every route in the table.
func Fragment(view View, code string) string {
	switch view {
	case ViewLanding:
		return "/"
	case ViewDashboard:
		return "/teacher"
	case ViewCreate:
		return "/teacher/create"
	case ViewMonitor:
		return "/teacher/monitor/" + code
	case ViewReview:
		return "/teacher/review/" + code
	case ViewJoin:
		return "/join"
	case ViewCompose:
		return "/s/" + code
	case ViewSubmitted:
		return "/s/" + code + "/submitted"
	}
	return "/"
}
