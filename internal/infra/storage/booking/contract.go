package booking

import "github.com/m04kA/BH-BookingService/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// NumberGenerator выдает очередной кандидат номера бронирования
type NumberGenerator func() string
