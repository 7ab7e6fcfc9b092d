package handler

import (
	"fmt"

	"sqlrunner/internal/logging"
	"sqlrunner/internal/model"
	"sqlrunner/internal/service"
)

var activeDB service.DBClient

// Client constructors, overridden in tests.
var (
	newPostgresClient = func() service.DBClient { return service.NewPostgresClient() }
	newPgxClient      = func() service.DBClient { return service.NewPgxClient() }
	newMySQLClient    = func() service.DBClient { return service.NewMySQLClient() }
)

// Connect opens the database every POST will be executed against. It is
// called once at startup; the handler itself never manages connections.
func Connect(req model.ConnectRequest) error {
	var client service.DBClient
	switch req.Driver {
	case "postgres":
		client = newPostgresClient()
	case "pgx":
		client = newPgxClient()
	case "mysql":
		client = newMySQLClient()
	default:
		return fmt.Errorf("unsupported driver %q", req.Driver)
	}

	if err := client.Connect(req.DSN); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	activeDB = client
	log := logging.New("handler")
	log.Info().Str("driver", req.Driver).Msg("connected to database")
	return nil
}

func Disconnect() error {
	if activeDB == nil {
		return nil
	}
	err := activeDB.Disconnect()
	activeDB = nil
	return err
}
