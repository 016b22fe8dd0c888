package controllers

import (
	"context"
	"net/http"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type (
	writeFunc[T any]  func(ctx context.Context, entity *T, saveChanges bool) (*T, error)
	deleteFunc[T any] func(ctx context.Context, id uuid.UUID, saveChanges bool) (*T, error)
)

// EntityController expone el CRUD de un EntityService. Create, Update y
// Delete se pueden reemplazar cuando otro servicio coordina la operación
// (por ejemplo borrar una amenity que usan listings).
type EntityController[T any] struct {
	service services.EntityService[T]
	name    string
	create  writeFunc[T]
	update  writeFunc[T]
	remove  deleteFunc[T]
}

// NewEntityController crea el controlador; name se usa en los mensajes ("Role created successfully")
func NewEntityController[T any](name string, service services.EntityService[T]) *EntityController[T] {
	return &EntityController[T]{
		service: service,
		name:    name,
		create:  service.Create,
		update:  service.Update,
		remove:  service.Delete,
	}
}

func (ctrl *EntityController[T]) WithCreate(fn writeFunc[T]) *EntityController[T] {
	ctrl.create = fn
	return ctrl
}

func (ctrl *EntityController[T]) WithUpdate(fn writeFunc[T]) *EntityController[T] {
	ctrl.update = fn
	return ctrl
}

func (ctrl *EntityController[T]) WithDelete(fn deleteFunc[T]) *EntityController[T] {
	ctrl.remove = fn
	return ctrl
}

// Register agrega las cinco rutas CRUD bajo el grupo
func (ctrl *EntityController[T]) Register(group *gin.RouterGroup) {
	group.GET("", ctrl.GetAll)
	group.GET("/:id", ctrl.GetByID)
	group.POST("", ctrl.Create)
	group.PUT("/:id", ctrl.Update)
	group.DELETE("/:id", ctrl.Delete)
}

// GetAll maneja GET /<entidades>
func (ctrl *EntityController[T]) GetAll(c *gin.Context) {
	rows, err := ctrl.service.Get(c.Request.Context(), nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetByID maneja GET /<entidades>/:id
func (ctrl *EntityController[T]) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	row, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Create maneja POST /<entidades>
func (ctrl *EntityController[T]) Create(c *gin.Context) {
	// 1. Parsear el body a la entidad
	entity := new(T)
	if !bindJSON(c, entity) {
		return
	}
	// El ID lo asigna el servicio
	recordOf(entity).ID = uuid.Nil

	// 2. Crear y guardar
	created, err := ctrl.create(c.Request.Context(), entity, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: ctrl.name + " created successfully",
		Data:    created,
	})
}

// Update maneja PUT /<entidades>/:id
func (ctrl *EntityController[T]) Update(c *gin.Context) {
	// 1. El ID sale de la URL, no del body
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entity := new(T)
	if !bindJSON(c, entity) {
		return
	}
	recordOf(entity).ID = id

	// 2. Actualizar y guardar
	updated, err := ctrl.update(c.Request.Context(), entity, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: ctrl.name + " updated successfully",
		Data:    updated,
	})
}

// Delete maneja DELETE /<entidades>/:id (borrado lógico)
func (ctrl *EntityController[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.remove(c.Request.Context(), id, true); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: ctrl.name + " deleted successfully",
	})
}

func recordOf[T any](entity *T) *domain.Entity {
	return any(entity).(domain.Record).Base()
}
