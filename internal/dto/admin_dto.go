package dto

type CreateUserInput struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Role        string `json:"role" binding:"omitempty,oneof=user vip admin"`
	VIPLevel    int    `json:"vip_level" binding:"gte=0"`
}

type UpdateUserInput struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Role        *string `json:"role" binding:"omitempty,oneof=user vip admin"`
	Status      *string `json:"status" binding:"omitempty,oneof=active suspended inactive"`
	VIPLevel    *int    `json:"vip_level" binding:"omitempty,gte=0"`
}

type AdjustPointsInput struct {
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}
