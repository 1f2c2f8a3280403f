package cancel_hold

import (
	"context"

	"github.com/m04kA/SMC-HoldService/internal/service/holds/models"
)

type HoldsService interface {
	Cancel(ctx context.Context, holdID int64, req *models.CancelHoldRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
