package booking_request

import "github.com/m04kA/BH-BookingService/pkg/dbmetrics"

// DBExecutor общий интерфейс *sql.DB, *sql.Tx и *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor
