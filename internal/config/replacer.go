package config

import "strings"

// envKeyReplacer maps nested viper keys to env names:
// postgres.dsn -> RENTWARE_POSTGRES_DSN.
var envKeyReplacer = strings.NewReplacer(".", "_")
