package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/hayati/internal/config"
	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/keyring"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/storage/postgres"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

// Database source names, in resolution order.
const (
	SourceFlag    = "flag"
	SourceEnv     = "environment"
	SourceKeyring = "keyring"
	SourceConfig  = "config"
)

// Database is a resolved database location.
type Database struct {
	Location string
	Source   string
}

// Trusted reports whether the location came from a secret store, where an
// embedded password is acceptable.
func (d Database) Trusted() bool {
	return d.Source == SourceEnv || d.Source == SourceKeyring
}

// ResolveDatabase picks the database from the --db flag, then
// HAYATI_DB_CONNECTION, then the OS keyring, then the config file (which
// defaults to a SQLite file in the config directory).
func ResolveDatabase(flag string, cfg config.Config) Database {
	if flag != "" {
		return Database{Location: flag, Source: SourceFlag}
	}
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return Database{Location: env, Source: SourceEnv}
	}
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil && connStr != "":
		return Database{Location: connStr, Source: SourceKeyring}
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("Keyring lookup failed", "error", err)
	}
	return Database{Location: cfg.Database, Source: SourceConfig}
}

// OpenStore returns the store for db without connecting. PostgreSQL locations
// from the flag or config file must not embed a password.
func OpenStore(db Database, timeout time.Duration) (storage.Provider, error) {
	if !config.IsPostgres(db.Location) {
		path, err := config.ExpandPath(db.Location)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path, timeout), nil
	}

	err := postgres.ValidateConnString(db.Location)
	switch {
	case errors.Is(err, postgres.ErrEmbeddedCredentials) && db.Trusted():
	case errors.Is(err, postgres.ErrEmbeddedCredentials):
		return nil, fmt.Errorf("%w; store it with 'hayati keyring set', export %s, or use a .pgpass file", err, constants.EnvDBConnection)
	case err != nil:
		return nil, err
	}
	return postgres.New(db.Location, timeout), nil
}
