package instance

import (
	"os"

	"github.com/angelmondragon/marketplace-backend/pkg/env"
)

// GetID returns the process instance identifier used in logs.
func GetID() string {
	if id := env.First("", "DYNO", "HOSTNAME", "INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
