package policy

import "github.com/m04kA/SMC-ServiceBooking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
