package dto

import (
	"booking-api/domain"

	"github.com/google/uuid"
)

// NotificationRequest es el mensaje que llega por la cola notification_requests
type NotificationRequest struct {
	Channel    domain.NotificationType `json:"channel"`
	UserID     uuid.UUID               `json:"user_id"`
	TemplateID uuid.UUID               `json:"template_id"`
}

type CreateVerificationCodeRequest struct {
	UserID   uuid.UUID                   `json:"user_id" binding:"required"`
	CodeType domain.VerificationCodeType `json:"code_type" binding:"required"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}
