package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// RegistryHandler exposes the synchronization layer itself: its current
// state, version token, and a manual reload trigger.
type RegistryHandler struct {
	registry ports.Registry
}

func NewRegistryHandler(registry ports.Registry) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

type registryStatusResponse struct {
	State        string    `json:"state"`
	Degraded     bool      `json:"degraded"`
	VersionToken string    `json:"versionToken,omitempty"`
	LastUpdated  time.Time `json:"lastUpdated"`
	Version      string    `json:"version,omitempty"`
	Note         string    `json:"note,omitempty"`
}

// Status handles GET /v1/registry/status.
//
// @Summary      Registry synchronization status
// @Tags         registry
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  registryStatusResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/registry/status [get]
func (h *RegistryHandler) Status(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	state := h.registry.State()
	meta := h.registry.Metadata()
	return c.JSON(http.StatusOK, registryStatusResponse{
		State:        string(state),
		Degraded:     state == ports.StateDegraded,
		VersionToken: h.registry.VersionToken(),
		LastUpdated:  meta.LastUpdated,
		Version:      meta.Version,
		Note:         meta.Note,
	})
}

// Reload handles POST /v1/registry/reload (admin only). A successful reload
// discards any in-memory changes accumulated while degraded and resumes
// normal persistence.
//
// @Summary      Refetch the registry from the remote store
// @Tags         registry
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  registryStatusResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/registry/reload [post]
func (h *RegistryHandler) Reload(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	if err := h.registry.Reload(c.Request().Context()); err != nil {
		return err
	}
	return h.Status(c)
}
