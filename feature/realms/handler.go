package realms

import (
	"errors"

	"vault-sync/core/logger"
	"vault-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for realms.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SyncRequest selects the realms of a triggered pass.
type SyncRequest struct {
	// Realms limits the pass; empty means all realms.
	Realms []string `json:"realms"`
	// DryRun only builds the plans.
	DryRun bool `json:"dry_run"`
}

// RegisterRoutes registers the realms routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/realms", h.HandleList)
	app.Get("/realms/:realm/plan", h.HandlePlan)
	app.Post("/sync", h.HandleSync)
}

// HandleList lists the configured realms.
// @Summary List Realms
// @Description Returns the configured realms and their local directories.
// @Tags realms
// @Produce json
// @Success 200 {array} reconcile.Realm
// @Router /realms [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.Realms())
}

// HandlePlan returns what a sync of the realm would do.
// @Summary Plan Realm
// @Description Builds the sync plan of a realm with the automatic decisions. Nothing is changed.
// @Tags realms
// @Produce json
// @Param realm path string true "Realm name"
// @Success 200 {object} reconcile.Plan
// @Failure 404 {object} map[string]string "Unknown realm"
// @Failure 422 {object} map[string]string "Invalid realm configuration"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /realms/{realm}/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("realm")

	plan, err := h.service.Plan(c.UserContext(), name)
	if err != nil {
		l.Error("Plan failed", zap.String("realm", name), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Plan built",
		zap.String("realm", name),
		zap.Int("total_items", plan.Summary.TotalItems),
		zap.Int("mutations", plan.Summary.Mutations))

	return c.JSON(plan)
}

// HandleSync triggers a sync pass.
// @Summary Sync Realms
// @Description Synchronizes the selected realms (all when none are given) with the automatic decisions. Concurrent identical requests share one pass.
// @Tags realms
// @Accept json
// @Produce json
// @Param request body SyncRequest false "Realm selection"
// @Success 200 {object} SyncResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unknown realm"
// @Failure 502 {object} SyncResponse "A realm failed"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	l.Info("Triggering sync", zap.Strings("realms", req.Realms), zap.Bool("dry_run", req.DryRun))

	resp, err := h.service.Sync(req.Realms, req.DryRun)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if resp.Error != "" {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRealm):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrConfiguration):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
