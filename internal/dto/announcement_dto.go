package dto

type CreateAnnouncementInput struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
	Type    string `json:"type" binding:"omitempty,oneof=info warning success urgent"`
}

type UpdateAnnouncementInput struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content"`
	Type    *string `json:"type" binding:"omitempty,oneof=info warning success urgent"`
	Active  *bool   `json:"active"`
}
