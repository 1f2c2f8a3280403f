package get_hold

import (
	"context"

	"github.com/m04kA/SMC-HoldService/internal/service/holds/models"
)

type HoldsService interface {
	GetByID(ctx context.Context, id int64) (*models.HoldResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
