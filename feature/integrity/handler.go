package integrity

import (
	"errors"

	"vault-sync/core/logger"
	"vault-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Report is the response of an integrity check.
type Report struct {
	Realms []*checks.CollectionReport `json:"realms"`
	// Fixed is true when the problems were repaired after the check.
	Fixed bool   `json:"fixed"`
	Error string `json:"error,omitempty"`
}

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/:realm", h.HandleRealmCheck)
}

// HandleIntegrityCheck checks the collections of every realm.
// @Summary Check All Realms
// @Description Compares vault collections with the items of every realm. Use ?fix=true to create missing and delete orphaned collections.
// @Tags integrity
// @Produce json
// @Param fix query bool false "Repair the problems found"
// @Success 200 {object} Report
// @Failure 500 {object} Report "Check or fix failed"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	return h.check(c, nil)
}

// HandleRealmCheck checks the collections of one realm.
// @Summary Check Realm
// @Description Compares vault collections with the items of a realm. Use ?fix=true to repair.
// @Tags integrity
// @Produce json
// @Param realm path string true "Realm name"
// @Param fix query bool false "Repair the problems found"
// @Success 200 {object} Report
// @Failure 404 {object} map[string]string "Unknown realm"
// @Failure 500 {object} Report "Check or fix failed"
// @Router /integrity/{realm} [get]
func (h *Handler) HandleRealmCheck(c *fiber.Ctx) error {
	return h.check(c, []string{c.Params("realm")})
}

func (h *Handler) check(c *fiber.Ctx, names []string) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix", false)
	l.Info("Checking vault collections", zap.Strings("realms", names), zap.Bool("fix", fix))

	reports, err := h.service.Check(c.Context(), names)
	if err != nil {
		if errors.Is(err, ErrUnknownRealm) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Integrity check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(Report{Error: err.Error()})
	}

	resp := Report{Realms: reports}
	if fix {
		if err := h.service.Fix(c.Context(), reports); err != nil {
			resp.Error = err.Error()
			return c.Status(fiber.StatusInternalServerError).JSON(resp)
		}
		resp.Fixed = true
	}
	return c.JSON(resp)
}
