package realms

import (
	"github.com/gofiber/fiber/v2"
)

// Feature exposes the realms API through the loader.
type Feature struct {
	handler *Handler
}

// NewFeature creates the realms feature.
func NewFeature(service *Service) *Feature {
	return &Feature{handler: NewHandler(service)}
}

func (f *Feature) Name() string {
	return "realms"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
