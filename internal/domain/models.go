package domain

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type RoleStat struct {
	Name     string  `json:"roleName"`
	IconURL  string  `json:"iconUrl"`
	PlayRate float64 `json:"playRatePercent"`
	WinRate  float64 `json:"winRate"`
	Wins     int     `json:"wins"`
	KDA      float64 `json:"kda"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
	Assists  int     `json:"assists"`
}

type HeroStat struct {
	Name    string  `json:"heroName"`
	IconURL string  `json:"iconUrl"`
	WinRate float64 `json:"winRate"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	KDA     float64 `json:"kda"`
	Kills   int     `json:"kills"`
	Deaths  int     `json:"deaths"`
	Assists int     `json:"assists"`
}

func (h HeroStat) Games() int {
	return h.Wins + h.Losses
}

// Profile is what a single tracker overview page yields.
type Profile struct {
	Roles  []RoleStat
	Heroes []HeroStat
}

type PlayerResult struct {
	Handle  string     `json:"handle"`
	Status  Status     `json:"status"`
	Message string     `json:"message"`
	Roles   []RoleStat `json:"roles"`
	Heroes  []HeroStat `json:"heroes"`
}

func NewErrorResult(handle, message string) PlayerResult {
	return PlayerResult{
		Handle:  handle,
		Status:  StatusError,
		Message: message,
		Roles:   []RoleStat{},
		Heroes:  []HeroStat{},
	}
}

type BanRecommendation struct {
	Hero     HeroStat `json:"hero"`
	Player   string   `json:"player"`
	Priority float64  `json:"priorityScore"`
	Reason   string   `json:"reason"`
}
