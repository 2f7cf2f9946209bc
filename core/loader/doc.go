// Package loader mounts the HTTP features of the serve command.
//
// A feature reports its name, whether it is enabled, and registers its
// routes on a fiber.Router. The Manager loads features in registration order.
//
//	mgr := loader.NewManager()
//	mgr.Register(realms.NewFeature(service))
//	mgr.Register(integrity.NewFeature(checker))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
//
// Disabled features are skipped by LoadAll.
package loader
