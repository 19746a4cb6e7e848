package dto

import "time"

type RedeemInput struct {
	Code string `json:"code" binding:"required,min=3,max=64"`
}

type RedeemResponse struct {
	Code    string `json:"code"`
	Points  int    `json:"points"`
	Balance int    `json:"balance"`
}

type IssueGiftCodeInput struct {
	Code        string    `json:"code" binding:"required,min=3,max=64"`
	Points      int       `json:"points" binding:"required,gt=0"`
	Description string    `json:"description" binding:"max=255"`
	ExpiresAt   time.Time `json:"expires_at" binding:"required"`
}
