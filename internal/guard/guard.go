// ABOUTME: Route guard mapping session state to permitted navigation
// ABOUTME: Pure synchronous decision over a closed capability set

package guard

import "github.com/civicfix/civicfix-cli/internal/session"

// Capability is what a route demands of the session
type Capability int

const (
	Public Capability = iota
	RequiresUser
	RequiresAdmin
	// AnonymousOnly marks login/register: already-authenticated users are
	// bounced to the dashboard instead
	AnonymousOnly
)

// Decision is the guard's verdict for a navigation attempt
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDashboard
)

// Decide evaluates one navigation. No loops, no retries: exactly one
// decision per call.
func Decide(state session.State, cap Capability) Decision {
	switch cap {
	case Public:
		return Allow
	case AnonymousOnly:
		if state.Authenticated {
			return RedirectDashboard
		}
		return Allow
	case RequiresUser:
		if !state.Authenticated {
			return RedirectLogin
		}
		return Allow
	case RequiresAdmin:
		if !state.Authenticated {
			return RedirectLogin
		}
		if !state.Admin {
			return RedirectDashboard
		}
		return Allow
	default:
		// Unknown capabilities fail closed
		return RedirectLogin
	}
}

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case RequiresUser:
		return "user"
	case RequiresAdmin:
		return "admin"
	case AnonymousOnly:
		return "anonymous"
	default:
		return "unknown"
	}
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}
