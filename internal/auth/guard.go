package auth

// Decision is what a protected view should do for the current state.
type Decision string

const (
	ShowLoading     Decision = "show_loading"
	RedirectToLogin Decision = "redirect_to_login"
	RenderProtected Decision = "render_protected"
)

// Decide maps the session state to a routing decision. While the state is
// Unknown the only answer is ShowLoading — never guess. The mapping is
// total: Authenticated renders, everything else redirects.
func Decide(state State) Decision {
	switch state {
	case StateUnknown:
		return ShowLoading
	case StateAuthenticated:
		return RenderProtected
	default:
		return RedirectToLogin
	}
}

// Guard re-evaluates the routing decision against a live service, so a
// mid-session logout from another view redirects immediately.
type Guard struct {
	svc *Service
}

// NewGuard wraps the service for protected views.
func NewGuard(svc *Service) *Guard {
	return &Guard{svc: svc}
}

// Decision evaluates the guard against the current state.
func (g *Guard) Decision() Decision {
	return Decide(g.svc.State())
}

// Watch invokes fn with a fresh decision on every state change, and once
// immediately with the current one.
func (g *Guard) Watch(fn func(Decision)) {
	g.svc.Subscribe(func(state State) {
		fn(Decide(state))
	})
	fn(g.Decision())
}
