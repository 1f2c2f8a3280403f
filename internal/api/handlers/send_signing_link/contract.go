package send_signing_link

import (
	"context"

	sendLink "github.com/m04kA/SMC-HoldService/internal/usecase/send_signing_link"
)

type SendSigningLinkUseCase interface {
	Execute(ctx context.Context, req *sendLink.Request) (*sendLink.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
