package invoice

import (
	"time"

	invoiceDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/invoice"
)

// Invoice is an attachment proving the expense behind a benefit request.
type Invoice struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	StorageKey string    `json:"-"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// File is an uploaded file as received from the multipart form.
type File struct {
	Name     string
	Size     int64
	MimeType string
	Content  []byte
}

// UploadReport summarizes a batch upload: which files were stored and which
// failed. A failed file never fails the batch or touches the request.
type UploadReport struct {
	Uploaded []*Invoice   `json:"uploaded"`
	Failed   []FailedFile `json:"failed,omitempty"`
}

type FailedFile struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

func ToDataModel(inv *Invoice) *invoiceDatamodel.Invoice {
	return &invoiceDatamodel.Invoice{
		ID:         inv.ID,
		RequestID:  inv.RequestID,
		FileName:   inv.FileName,
		FileURL:    inv.FileURL,
		StorageKey: inv.StorageKey,
		FileSize:   inv.FileSize,
		MimeType:   inv.MimeType,
		UploadedAt: inv.UploadedAt,
	}
}

func FromDataModel(dm *invoiceDatamodel.Invoice) *Invoice {
	return &Invoice{
		ID:         dm.ID,
		RequestID:  dm.RequestID,
		FileName:   dm.FileName,
		FileURL:    dm.FileURL,
		StorageKey: dm.StorageKey,
		FileSize:   dm.FileSize,
		MimeType:   dm.MimeType,
		UploadedAt: dm.UploadedAt,
	}
}

func FromDataModelSlice(dms []*invoiceDatamodel.Invoice) []*Invoice {
	result := make([]*Invoice, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
