package model

type ConnectRequest struct {
	Driver string `json:"driver"` // "postgres", "pgx" or "mysql"
	DSN    string `json:"dsn"`    // connection string
}
