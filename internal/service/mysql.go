package service

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

func NewMySQLClient() *SQLClient {
	return newSQLClient("mysql", classifyMySQLError)
}

func classifyMySQLError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}

	cause := fmt.Errorf("Error %d (%s)", myErr.Number, string(myErr.SQLState[:]))
	return &ExecError{Message: myErr.Message, Cause: cause}
}
