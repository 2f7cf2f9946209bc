package database

// Config holds the MySQL connection of the SQL vault.
type Config struct {
	Host string `mapstructure:"host" default:"localhost"`
	Port int    `mapstructure:"port" default:"3306"`
	// User needs CREATE and ALTER on Name for the initial migration.
	User     string `mapstructure:"user" default:"root"`
	Password string `mapstructure:"password" default:""`
	// Name is the schema holding the vault_items and vault_collections tables.
	Name string `mapstructure:"name" default:"vault"`
	// TimeoutSeconds bounds connection setup and each read or write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxOpenConns caps the connection pool. A sync pass uses one connection.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"4"`
}
