package controllers

import (
	"net/http"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationController maneja templates, envíos e historiales
type NotificationController struct {
	emailTemplates *EntityController[domain.EmailTemplate]
	smsTemplates   *EntityController[domain.SmsTemplate]
	emails         services.EmailManagementService
	sms            services.SmsManagementService
	emailHistories services.EmailHistoryService
	smsHistories   services.SmsHistoryService
}

func NewNotificationController(
	emailTemplates services.EmailTemplateService,
	smsTemplates services.SmsTemplateService,
	emails services.EmailManagementService,
	sms services.SmsManagementService,
	emailHistories services.EmailHistoryService,
	smsHistories services.SmsHistoryService,
) *NotificationController {
	return &NotificationController{
		emailTemplates: NewEntityController[domain.EmailTemplate]("Email template", emailTemplates),
		smsTemplates:   NewEntityController[domain.SmsTemplate]("Sms template", smsTemplates),
		emails:         emails,
		sms:            sms,
		emailHistories: emailHistories,
		smsHistories:   smsHistories,
	}
}

func (ctrl *NotificationController) Register(group *gin.RouterGroup) {
	ctrl.emailTemplates.Register(group.Group("/emailTemplates"))
	ctrl.smsTemplates.Register(group.Group("/smsTemplates"))

	group.POST("/emailManagement/:userId/:templateId", ctrl.SendEmail)
	group.POST("/smsManagement/:userId/:templateId", ctrl.SendSms)
	group.GET("/emails", ctrl.GetEmailHistory)
	group.GET("/sms", ctrl.GetSmsHistory)
}

// SendEmail maneja POST /notifications/emailManagement/:userId/:templateId
// Si ningún broker aceptó el mensaje igual responde 200 con IsSuccessful=false
func (ctrl *NotificationController) SendEmail(c *gin.Context) {
	// 1. Leer usuario y template de la URL
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	templateID, ok := parseID(c, "templateId")
	if !ok {
		return
	}

	// 2. Armar, enviar y registrar el email
	history, err := ctrl.emails.SendEmail(c.Request.Context(), userID, templateID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Email processed",
		Data:    history,
	})
}

// SendSms maneja POST /notifications/smsManagement/:userId/:templateId
func (ctrl *NotificationController) SendSms(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	templateID, ok := parseID(c, "templateId")
	if !ok {
		return
	}

	history, err := ctrl.sms.SendSms(c.Request.Context(), userID, templateID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Sms processed",
		Data:    history,
	})
}

// GetEmailHistory maneja GET /notifications/emails?receiver_id=...
func (ctrl *NotificationController) GetEmailHistory(c *gin.Context) {
	receiverID, filtered, ok := receiverFilter(c)
	if !ok {
		return
	}

	var (
		rows []*domain.EmailHistory
		err  error
	)
	if filtered {
		rows, err = ctrl.emailHistories.GetByReceiverID(c.Request.Context(), receiverID)
	} else {
		rows, err = ctrl.emailHistories.Get(c.Request.Context(), nil)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetSmsHistory maneja GET /notifications/sms?receiver_id=...
func (ctrl *NotificationController) GetSmsHistory(c *gin.Context) {
	receiverID, filtered, ok := receiverFilter(c)
	if !ok {
		return
	}

	var (
		rows []*domain.SmsHistory
		err  error
	)
	if filtered {
		rows, err = ctrl.smsHistories.GetByReceiverID(c.Request.Context(), receiverID)
	} else {
		rows, err = ctrl.smsHistories.Get(c.Request.Context(), nil)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// receiverFilter lee ?receiver_id; filtered es false si no vino
func receiverFilter(c *gin.Context) (id uuid.UUID, filtered bool, ok bool) {
	raw := c.Query("receiver_id")
	if raw == "" {
		return uuid.Nil, false, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid receiver_id",
		})
		return uuid.Nil, false, false
	}
	return id, true, true
}

// VerificationCodeController maneja /verificationCodes
type VerificationCodeController struct {
	service services.VerificationCodeService
}

func NewVerificationCodeController(service services.VerificationCodeService) *VerificationCodeController {
	return &VerificationCodeController{service: service}
}

func (ctrl *VerificationCodeController) Register(group *gin.RouterGroup) {
	group.POST("", ctrl.Create)
	group.POST("/verify", ctrl.Verify)
}

// Create maneja POST /verificationCodes
func (ctrl *VerificationCodeController) Create(c *gin.Context) {
	var req dto.CreateVerificationCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	code := &domain.UserInfoVerificationCode{UserID: req.UserID, CodeType: req.CodeType}
	created, err := ctrl.service.Create(c.Request.Context(), code, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Verification code created successfully",
		Data:    created,
	})
}

// Verify maneja POST /verificationCodes/verify
func (ctrl *VerificationCodeController) Verify(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	code, err := ctrl.service.Verify(c.Request.Context(), req.Code, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Code verified successfully",
		Data:    code,
	})
}
