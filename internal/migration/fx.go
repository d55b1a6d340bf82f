package migration

import (
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	"github.com/jayambe/books/internal/numbering"
	payabledomain "github.com/jayambe/books/internal/payable/domain"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module migrates the ledger schema at startup. Running the migration before
// the server accepts traffic is what guarantees every optional column exists,
// so no insert ever needs a retry-with-fields-stripped fallback.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(
			&numbering.DocumentSequence{},
			&invoicedomain.Invoice{},
			&paymentdomain.Payment{},
			&payabledomain.Payable{},
		)
	}),
)
