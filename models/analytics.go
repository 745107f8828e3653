package models

type StatusBreakdown struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type GrowthWindow struct {
	Current       int     `json:"current"`
	Previous      int     `json:"previous"`
	GrowthPercent float64 `json:"growthPercent"`
}

// Analytics is the admin dashboard payload.
type Analytics struct {
	UsersTotal       int             `json:"usersTotal"`
	TeamsTotal       int             `json:"teamsTotal"`
	EventsTotal      int             `json:"eventsTotal"`
	ActiveEvents     int             `json:"activeEvents"`
	ProposalStatus   StatusBreakdown `json:"proposalStatus"`
	NewUsersLast30   int             `json:"newUsersLast30Days"`
	NewTeamsLast30   int             `json:"newTeamsLast30Days"`
	UserGrowthWeekly GrowthWindow    `json:"userGrowthWeekly"`
	TeamGrowthWeekly GrowthWindow    `json:"teamGrowthWeekly"`
}
