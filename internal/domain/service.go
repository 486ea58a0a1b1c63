// Package domain defines the unified model for accounts, projects and
// deployments across the supported hosting providers.
package domain

// Service identifies a deployment hosting provider.
type Service string

const (
	// ServiceVercel is the Vercel hosting platform
	ServiceVercel Service = "vercel"

	// ServiceNetlify is the Netlify hosting platform
	ServiceNetlify Service = "netlify"
)

// Services lists every supported provider.
var Services = []Service{ServiceVercel, ServiceNetlify}

// Valid reports whether s is a known provider.
func (s Service) Valid() bool {
	switch s {
	case ServiceVercel, ServiceNetlify:
		return true
	}
	return false
}

// DisplayName returns the human-readable provider name.
func (s Service) DisplayName() string {
	switch s {
	case ServiceVercel:
		return "Vercel"
	case ServiceNetlify:
		return "Netlify"
	}
	return string(s)
}

// DashboardURL returns the provider's web dashboard.
func (s Service) DashboardURL() string {
	switch s {
	case ServiceVercel:
		return "https://vercel.com/dashboard"
	case ServiceNetlify:
		return "https://app.netlify.com"
	}
	return ""
}
