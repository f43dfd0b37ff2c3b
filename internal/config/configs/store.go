package configs

import "fmt"

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store selects the repository backend.
type Store struct {
	Driver string `env:"DRIVER" envDefault:"postgres"`
}

// Validate rejects unknown drivers.
func (s Store) Validate() error {
	switch s.Driver {
	case DriverPostgres, DriverMemory:
		return nil
	}
	return fmt.Errorf("unknown store driver %q", s.Driver)
}
