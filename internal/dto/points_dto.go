package dto

import "github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"

type BalanceResponse struct {
	Points  int                 `json:"points"`
	Entries []model.LedgerEntry `json:"entries"`
}

type CheckinResponse struct {
	Reward  int `json:"reward"`
	Streak  int `json:"streak"`
	Balance int `json:"balance"`
}

type CheckinStatusResponse struct {
	CheckedInToday bool `json:"checked_in_today"`
	Streak         int  `json:"streak"`
	NextReward     int  `json:"next_reward"`
}

type GameRewardResponse struct {
	Reward  int `json:"reward"`
	Balance int `json:"balance"`
}
