package controllers

import (
	"net/http"

	"booking-api/dto"
	"booking-api/services"

	"github.com/gin-gonic/gin"
)

// UserController maneja los endpoints HTTP de usuarios.
// Nunca devuelve la entidad directamente, siempre dto.UserResponse.
type UserController struct {
	service services.UserService
}

// NewUserController crea una nueva instancia del controlador
func NewUserController(service services.UserService) *UserController {
	return &UserController{service: service}
}

func (ctrl *UserController) Register(group *gin.RouterGroup) {
	group.GET("", ctrl.GetAllUsers)
	group.GET("/:id", ctrl.GetUserByID)
	group.POST("", ctrl.CreateUser)
	group.POST("/login", ctrl.Login)
	group.PUT("/:id", ctrl.UpdateUser)
	group.DELETE("/:id", ctrl.DeleteUser)
}

// CreateUser maneja POST /users
// Este endpoint se usa para REGISTRAR un nuevo usuario
func (ctrl *UserController) CreateUser(c *gin.Context) {
	// 1. Leer el JSON del body y parsearlo a CreateUserRequest
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	// 2. Llamar al servicio para crear el usuario
	user, err := ctrl.service.Create(c.Request.Context(), req.ToUser(), true)
	if err != nil {
		// Email duplicado -> 409, datos inválidos -> 400
		writeError(c, err)
		return
	}

	// 3. Devolver respuesta exitosa con el usuario creado
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "User created successfully",
		Data:    dto.NewUserResponse(user),
	})
}

// GetUserByID maneja GET /users/:id
func (ctrl *UserController) GetUserByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetAllUsers maneja GET /users
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	users, err := ctrl.service.Get(c.Request.Context(), nil)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Users retrieved successfully",
		Data:    dto.NewUserResponses(users),
	})
}

// Login maneja POST /users/login
// Valida las credenciales y devuelve el usuario, no emite tokens
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.service.Authenticate(c.Request.Context(), req.EmailAddress, req.Password)
	if err != nil {
		// Credenciales incorrectas -> 401
		if errIsValidation(err) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "login_error",
				Message: err.Error(),
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateUser maneja PUT /users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	// 1. Obtener el ID de la URL
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// 2. Leer el JSON del body
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	// 3. Llamar al servicio para actualizar
	user, err := ctrl.service.Update(c.Request.Context(), req.ToUser(id), true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "User updated successfully",
		Data:    dto.NewUserResponse(user),
	})
}

// DeleteUser maneja DELETE /users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.service.Delete(c.Request.Context(), id, true); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "User deleted successfully",
	})
}
