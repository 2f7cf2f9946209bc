// Package database handles the MySQL connection used by the SQL vault backend.
//
// It wraps GORM to configure connection timeouts and pool limits from the
// application's configuration. The vault schema itself is owned by
// core/vault/sqlvault, which migrates its tables on open.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	v, err := sqlvault.Open(db)
package database
