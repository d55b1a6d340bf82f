package invoice

import (
	"github.com/jayambe/books/internal/invoice/service"
	"github.com/jayambe/books/internal/numbering"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	numbering.Module,
	fx.Provide(service.NewService),
)
