package constants

import "time"

const (
	ProfileURLTemplate = "https://tracker.gg/marvel-rivals/profile/ign/{handle}/overview"
	HandlePlaceholder  = "{handle}"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// readiness polling
const (
	ConsentButtonSelector = "#onetrust-accept-btn-handler"
	ConsentTimeout        = 5 * time.Second
	ConsentSettleDelay    = 1 * time.Second
	InitialRenderDelay    = 5 * time.Second
	ReadinessMaxAttempts  = 12
	ReadinessPollInterval = 5 * time.Second
)

var ReadinessMarkers = []string{"Top Heroes", "trn-card"}

const (
	NavigationTimeout   = 60 * time.Second
	SessionCloseTimeout = 10 * time.Second
	StaticFetchTimeout  = 30 * time.Second
	StaticMaxRedirects  = 5
)

const (
	ShutdownTimeout   = 5 * time.Second
	ReadHeaderTimeout = 10 * time.Second
)

const (
	MaxBanRecommendations = 5
)
