package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType es el canal de la notificación, discrimina los subtipos
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeSms   NotificationType = "sms"
)

// NotificationTemplateType identifica para qué evento se usa un template
type NotificationTemplateType string

const (
	TemplateSystemWelcome        NotificationTemplateType = "system_welcome"
	TemplateEmailVerification    NotificationTemplateType = "email_verification"
	TemplatePhoneVerification    NotificationTemplateType = "phone_verification"
	TemplateReferralNotification NotificationTemplateType = "referral_notification"
	TemplateReservationConfirmed NotificationTemplateType = "reservation_confirmed"
	TemplatePasswordReset        NotificationTemplateType = "password_reset"
)

func (t NotificationTemplateType) IsValid() bool {
	switch t {
	case TemplateSystemWelcome, TemplateEmailVerification, TemplatePhoneVerification,
		TemplateReferralNotification, TemplateReservationConfirmed, TemplatePasswordReset:
		return true
	}
	return false
}

// NotificationTemplate es la base de los templates, (Type, TemplateType) es único
type NotificationTemplate struct {
	Entity
	Type         NotificationType         `gorm:"type:varchar(16);not null;index" json:"type"`
	TemplateType NotificationTemplateType `gorm:"type:varchar(64);not null" json:"template_type"`
	Content      string                   `gorm:"not null" json:"content"`
}

// EmailTemplate comparte la tabla notification_templates con SmsTemplate
type EmailTemplate struct {
	NotificationTemplate
	Subject string `gorm:"size:256" json:"subject"`
}

func (EmailTemplate) TableName() string {
	return "notification_templates"
}

type SmsTemplate struct {
	NotificationTemplate
}

func (SmsTemplate) TableName() string {
	return "notification_templates"
}

// NotificationHistory registra cada intento de envío
type NotificationHistory struct {
	Entity
	Type           NotificationType `gorm:"type:varchar(16);not null;index" json:"type"`
	TemplateID     uuid.UUID        `gorm:"size:36" json:"template_id"`
	SenderUserID   *uuid.UUID       `gorm:"size:36" json:"sender_user_id,omitempty"`
	ReceiverUserID uuid.UUID        `gorm:"size:36;index" json:"receiver_user_id"`
	Content        string           `json:"content"`
	IsSuccessful   bool             `json:"is_successful"`
	ErrorMessage   string           `json:"error_message,omitempty"`
}

// EmailHistory comparte la tabla notification_histories con SmsHistory
type EmailHistory struct {
	NotificationHistory
	SenderEmailAddress   string `gorm:"size:128" json:"sender_email_address"`
	ReceiverEmailAddress string `gorm:"size:128" json:"receiver_email_address"`
	Subject              string `gorm:"size:256" json:"subject"`
}

func (EmailHistory) TableName() string {
	return "notification_histories"
}

type SmsHistory struct {
	NotificationHistory
	SenderPhoneNumber   string `gorm:"size:32" json:"sender_phone_number"`
	ReceiverPhoneNumber string `gorm:"size:32" json:"receiver_phone_number"`
}

func (SmsHistory) TableName() string {
	return "notification_histories"
}

// EmailMessage es un email ya renderizado listo para enviar, no se persiste
type EmailMessage struct {
	SenderAddress   string            `json:"sender_address"`
	ReceiverAddress string            `json:"receiver_address"`
	Subject         string            `json:"subject"`
	Body            string            `json:"body"`
	Variables       map[string]string `json:"-"`
	IsSuccessful    bool              `json:"is_successful"`
	ErrorMessage    string            `json:"error_message,omitempty"`
	SentTime        time.Time         `json:"sent_time"`
}

// SmsMessage es el equivalente para SMS
type SmsMessage struct {
	SenderPhoneNumber   string    `json:"sender_phone_number"`
	ReceiverPhoneNumber string    `json:"receiver_phone_number"`
	Message             string    `json:"message"`
	IsSuccessful        bool      `json:"is_successful"`
	ErrorMessage        string    `json:"error_message,omitempty"`
	SentTime            time.Time `json:"sent_time"`
}

// VerificationCodeType indica qué dato del usuario se verifica
type VerificationCodeType string

const (
	VerificationEmailAddress VerificationCodeType = "email_address"
	VerificationPhoneNumber  VerificationCodeType = "phone_number"
)

func (t VerificationCodeType) IsValid() bool {
	return t == VerificationEmailAddress || t == VerificationPhoneNumber
}

// VerificationCode es la base de los códigos de verificación
type VerificationCode struct {
	Entity
	Code             string    `gorm:"size:32;not null;index" json:"code"`
	ExpiryTime       time.Time `json:"expiry_time"`
	IsActive         bool      `json:"is_active"`
	VerificationLink string    `gorm:"size:512" json:"verification_link,omitempty"`
}

// UserInfoVerificationCode verifica email o teléfono de un usuario
type UserInfoVerificationCode struct {
	VerificationCode
	UserID   uuid.UUID            `gorm:"size:36;index" json:"user_id"`
	CodeType VerificationCodeType `gorm:"type:varchar(32)" json:"code_type"`
}

func (UserInfoVerificationCode) TableName() string {
	return "verification_codes"
}

// IsUsable indica si el código sigue activo y no venció
func (c *VerificationCode) IsUsable(now time.Time) bool {
	return c.IsActive && now.Before(c.ExpiryTime)
}
