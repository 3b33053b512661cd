package postgres

import (
	invoiceDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/invoice"
	"github.com/rmoreas/benefits-portal/internal/invoice"
	"gorm.io/gorm"
)

// InvoiceRepository implements the invoice.Repository interface using GORM
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) invoice.Repository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(inv *invoice.Invoice) error {
	dm := invoice.ToDataModel(inv)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	inv.ID = dm.ID
	return nil
}

func (r *InvoiceRepository) GetByRequestID(requestID int64) ([]*invoice.Invoice, error) {
	var dms []*invoiceDatamodel.Invoice
	err := r.db.Where("request_id = ?", requestID).
		Order("uploaded_at ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return invoice.FromDataModelSlice(dms), nil
}
