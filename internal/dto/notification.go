package dto

import "github.com/google/uuid"

type SendNotificationRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required" swaggertype:"string"`
	Title  string    `json:"title" binding:"required"`
	Text   string    `json:"text" binding:"required"`
}

type SendByEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}
