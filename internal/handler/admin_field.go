package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/model"
	"github.com/rakhadimas/field-reservation/internal/repository"
)

// FieldHandler exposes admin CRUD for fields.  The ADMIN role is
// enforced by route middleware.
type FieldHandler struct {
	FieldRepo *repository.FieldRepo
}

// NewFieldHandler constructs a FieldHandler.
func NewFieldHandler(fieldRepo *repository.FieldRepo) *FieldHandler {
	if fieldRepo == nil {
		panic("nil repository passed to NewFieldHandler")
	}
	return &FieldHandler{FieldRepo: fieldRepo}
}

type fieldBody struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	PricePerHour uint64  `json:"price_per_hour"`
	IsActive     *bool   `json:"is_active"`
}

type fieldView struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	PricePerHour uint64    `json:"price_per_hour"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toFieldView(f model.Field) fieldView {
	return fieldView{
		ID:           f.ID,
		Name:         f.Name,
		Description:  f.Description,
		PricePerHour: f.PricePerHour,
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Create handles POST /v1/admin/fields.
func (h *FieldHandler) Create(c echo.Context) error {
	var body fieldBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || body.PricePerHour == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and price_per_hour are required"})
	}
	field := &model.Field{
		Name:         strings.TrimSpace(body.Name),
		Description:  body.Description,
		PricePerHour: body.PricePerHour,
		IsActive:     true,
	}
	if err := h.FieldRepo.Create(c.Request().Context(), field); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create field"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toFieldView(*field)})
}

// Update handles PATCH /v1/admin/fields/:id.  Omitted body fields keep
// their current values.
func (h *FieldHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	ctx := c.Request().Context()
	cur, err := h.FieldRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body fieldBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) != "" {
		cur.Name = strings.TrimSpace(body.Name)
	}
	if body.Description != nil {
		cur.Description = body.Description
	}
	if body.PricePerHour != 0 {
		cur.PricePerHour = body.PricePerHour
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if err := h.FieldRepo.Update(ctx, &cur); err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update field"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toFieldView(cur)})
}

// Deactivate handles DELETE /v1/admin/fields/:id.  The field is hidden
// from booking but never removed while reservations reference it.
func (h *FieldHandler) Deactivate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	if err := h.FieldRepo.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not deactivate field"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/admin/fields, returning every field including
// deactivated ones.
func (h *FieldHandler) List(c echo.Context) error {
	fields, err := h.FieldRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		items = append(items, toFieldView(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
