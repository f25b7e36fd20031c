package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

type ThemeHandler struct {
	service ports.ThemeService
}

func NewThemeHandler(service ports.ThemeService) *ThemeHandler {
	return &ThemeHandler{service: service}
}

type themeBody struct {
	Theme string `json:"theme" validate:"required"`
}

// Get returns the stored theme, dark when none is stored.
//
// @Summary      Current theme
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  themeBody
// @Router       /preferences/theme [get]
func (h *ThemeHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, themeBody{Theme: string(h.service.Load(c.Request().Context()))})
}

// Put stores the theme.
//
// @Summary      Set theme
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      themeBody  true  "light or dark"
// @Success      200   {object}  themeBody
// @Failure      400   {object}  errorResponse
// @Router       /preferences/theme [put]
func (h *ThemeHandler) Put(c echo.Context) error {
	var req themeBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := domain.ParseTheme(req.Theme)
	if err != nil {
		return err
	}
	if err := h.service.Set(c.Request().Context(), t); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeBody{Theme: string(t)})
}

// Toggle flips between light and dark.
//
// @Summary      Toggle theme
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  themeBody
// @Router       /preferences/theme/toggle [post]
func (h *ThemeHandler) Toggle(c echo.Context) error {
	t, err := h.service.Toggle(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeBody{Theme: string(t)})
}
