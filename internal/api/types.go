package api

// Response shapes are fixed by the Boardgame App backend.

// ServerStatus is the root endpoint's welcome payload.
type ServerStatus struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health mirrors GET /health.
type Health struct {
	Status string `json:"status"`
}

// AppInfo describes the application and its auth requirements.
type AppInfo struct {
	AppName        string `json:"app_name"`
	Description    string `json:"description"`
	Authentication string `json:"authentication"`
	AllowedUsers   int    `json:"allowed_users"`
}

// AuthChallenge is the backend's answer to a login request: where to
// send the browser, plus an opaque state token echoed on the way back.
type AuthChallenge struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// Identity is the authenticated user as the backend sees it.
type Identity struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Issuer        string `json:"issuer,omitempty"`
}

// ProtectedPayload is the bearer-gated resource.
type ProtectedPayload struct {
	Message       string `json:"message"`
	Data          string `json:"data"`
	UserEmail     string `json:"user_email,omitempty"`
	AccessGranted bool   `json:"access_granted"`
	AuthMethod    string `json:"auth_method,omitempty"`
}
