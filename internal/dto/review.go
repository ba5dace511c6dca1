package dto

type CreateReviewRequest struct {
	AuthorName string `json:"authorName" example:"Мария"`
	Text       string `json:"text" binding:"required"`
	Rating     *int   `json:"rating,omitempty" binding:"omitempty,min=1,max=5" example:"5"`
}
