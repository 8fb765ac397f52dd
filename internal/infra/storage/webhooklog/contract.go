package webhooklog

import "github.com/m04kA/SMC-TurneroService/pkg/dbmetrics"

// DBExecutor переиспользует интерфейс из dbmetrics: *dbmetrics.DB или активная транзакция
type DBExecutor = dbmetrics.DBExecutor
