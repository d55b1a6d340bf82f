package payable

import (
	"github.com/jayambe/books/internal/payable/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payable.service",
	fx.Provide(service.NewService),
)
