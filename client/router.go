package client

// Portal routes.
const (
	RouteLogin              = "/login"
	RouteStudentSignup      = "/student/signup"
	RouteRecruiterSignup    = "/recruiter/signup"
	RouteMentorSignup       = "/mentor/signup"
	RouteStudentDashboard   = "/student-dashboard"
	RouteRecruiterDashboard = "/recruiter-dashboard"
	RouteMentorDashboard    = "/mentor-dashboard"
	RouteAdminDashboard     = "/admin-dashboard"
)

// DefaultRoute maps a role to its home dashboard. An unrecognized role falls
// back to the login route rather than guessing a dashboard.
func DefaultRoute(role string) string {
	switch role {
	case "student":
		return RouteStudentDashboard
	case "recruiter":
		return RouteRecruiterDashboard
	case "mentor":
		return RouteMentorDashboard
	case "admin":
		return RouteAdminDashboard
	}
	return RouteLogin
}

func dashboardRole(route string) (string, bool) {
	switch route {
	case RouteStudentDashboard:
		return "student", true
	case RouteRecruiterDashboard:
		return "recruiter", true
	case RouteMentorDashboard:
		return "mentor", true
	case RouteAdminDashboard:
		return "admin", true
	}
	return "", false
}

func isPublicRoute(route string) bool {
	switch route {
	case RouteLogin, RouteStudentSignup, RouteRecruiterSignup, RouteMentorSignup:
		return true
	}
	return false
}

// Decision is the outcome of resolving a requested route against the current
// session: show a loading view, redirect elsewhere, or render the route.
type Decision struct {
	Loading  bool
	Redirect string
	Route    string
}

func loading() Decision              { return Decision{Loading: true} }
func redirect(route string) Decision { return Decision{Redirect: route} }
func render(route string) Decision   { return Decision{Route: route} }

// Resolve decides what to show for a requested route given the session state
// and role. It is a pure function: same inputs, same decision, no side
// effects.
func Resolve(state State, role, route string) Decision {
	// Until restoration settles, render nothing gated; a premature redirect
	// to login would flash on every refresh of an authenticated user.
	if state == StateUnknown || state == StateRestoring {
		return loading()
	}

	if state == StateAnonymous {
		if isPublicRoute(route) {
			return render(route)
		}
		return redirect(RouteLogin)
	}

	// Authenticated.
	if isPublicRoute(route) {
		return redirect(DefaultRoute(role))
	}
	if wantRole, ok := dashboardRole(route); ok {
		if wantRole == role || role == "admin" {
			return render(route)
		}
		return redirect(DefaultRoute(role))
	}
	return redirect(DefaultRoute(role))
}
