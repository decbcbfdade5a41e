package transactions

import (
	"github.com/bmwdroch/detailing-bot/pkg/dbmetrics"
)

type (
	// DBExecutor описывает необходимые методы для работы с БД
	DBExecutor = dbmetrics.DBExecutor
)
