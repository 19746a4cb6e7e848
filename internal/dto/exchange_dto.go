package dto

import "github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"

type CreateExchangeInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"omitempty,gt=0"`
}

type ExchangeResponse struct {
	Exchange *model.ExchangeRequest `json:"exchange"`
	Balance  int                    `json:"balance"`
}
