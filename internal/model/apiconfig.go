package model

// YouTubeConfig holds credentials for the YouTube Data API.
type YouTubeConfig struct {
	APIKey string `json:"api_key,omitempty"`
}

// ServiceNowConfig holds credentials for a ServiceNow instance.
type ServiceNowConfig struct {
	Instance string `json:"instance,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// LinkedInConfig holds LinkedIn OAuth client credentials.
type LinkedInConfig struct {
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// APIConfig is the per-scope platform API configuration consumed by the
// engagement fetcher. Missing credentials for a platform mean its fetches
// fall back to simulation.
type APIConfig struct {
	YouTube    YouTubeConfig    `json:"youtube"`
	ServiceNow ServiceNowConfig `json:"servicenow"`
	LinkedIn   LinkedInConfig   `json:"linkedin"`
}

// HasYouTube reports whether real YouTube API calls are possible.
func (c APIConfig) HasYouTube() bool {
	return c.YouTube.APIKey != ""
}

// Merge overlays non-empty fields from other onto a copy of c.
// Used by merge-mode imports (shallow merge).
func (c APIConfig) Merge(other APIConfig) APIConfig {
	merged := c
	if other.YouTube.APIKey != "" {
		merged.YouTube.APIKey = other.YouTube.APIKey
	}
	if other.ServiceNow.Instance != "" {
		merged.ServiceNow.Instance = other.ServiceNow.Instance
	}
	if other.ServiceNow.Username != "" {
		merged.ServiceNow.Username = other.ServiceNow.Username
	}
	if other.ServiceNow.Password != "" {
		merged.ServiceNow.Password = other.ServiceNow.Password
	}
	if other.LinkedIn.ClientID != "" {
		merged.LinkedIn.ClientID = other.LinkedIn.ClientID
	}
	if other.LinkedIn.ClientSecret != "" {
		merged.LinkedIn.ClientSecret = other.LinkedIn.ClientSecret
	}
	return merged
}

// Redacted returns a copy with secret material masked for API responses
// and logs.
func (c APIConfig) Redacted() APIConfig {
	redacted := c
	redacted.YouTube.APIKey = redactSecret(c.YouTube.APIKey)
	redacted.ServiceNow.Password = redactSecret(c.ServiceNow.Password)
	redacted.LinkedIn.ClientSecret = redactSecret(c.LinkedIn.ClientSecret)
	return redacted
}

func redactSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
