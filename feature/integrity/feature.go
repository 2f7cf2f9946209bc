package integrity

import (
	"github.com/gofiber/fiber/v2"
)

// Feature exposes the integrity checks through the loader.
type Feature struct {
	handler *Handler
}

// NewFeature creates the integrity feature.
func NewFeature(service *Service) *Feature {
	return &Feature{handler: NewHandler(service)}
}

func (f *Feature) Name() string {
	return "integrity"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
