package model

// QueryResult is what the database service returns for one statement. It is
// written back to the client untouched.
type QueryResult struct {
	Results []map[string]any `json:"results"`
	Success bool             `json:"success"`
	Meta    Meta             `json:"meta"`
}

type Meta struct {
	ServedBy    string  `json:"served_by"`
	Duration    float64 `json:"duration"` // milliseconds
	Changes     int64   `json:"changes"`
	LastRowID   int64   `json:"last_row_id"`
	ChangedDB   bool    `json:"changed_db"`
	RowsRead    int64   `json:"rows_read"`
	RowsWritten int64   `json:"rows_written"`
}

// ErrorResponse is the body of every non-200 answer. Cause is null for
// validation failures.
type ErrorResponse struct {
	Error string  `json:"error"`
	Cause *string `json:"cause"`
}
