package request

import (
	"time"

	requestDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/request"
)

// Request statuses. pending is the only non-terminal state; a request is
// decided exactly once and never reopened.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Benefit types the portal accepts.
const (
	TypePsicologico  = "psicologico"
	TypeMedico       = "medico"
	TypeOdontologico = "odontologico"
	TypeFisioterapia = "fisioterapia"
	TypeOutros       = "outros"
)

// Polos is the fixed set of branch sites.
var Polos = []string{"matriz", "campinas", "recife", "porto_alegre", "remoto"}

var BenefitTypes = []string{TypePsicologico, TypeMedico, TypeOdontologico, TypeFisioterapia, TypeOutros}

func IsValidBenefitType(t string) bool {
	for _, bt := range BenefitTypes {
		if bt == t {
			return true
		}
	}
	return false
}

func IsValidPolo(p string) bool {
	for _, polo := range Polos {
		if polo == p {
			return true
		}
	}
	return false
}

type Dependent struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

type Request struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	BenefitType     string      `json:"benefit_type"`
	Description     string      `json:"description"`
	AmountCents     int64       `json:"amount_cents"`
	Status          string      `json:"status"`
	Polo            string      `json:"polo"`
	Dependents      []Dependent `json:"dependents,omitempty"`
	ApprovedBy      *int64      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time  `json:"approved_at,omitempty"`
	RejectionReason *string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// RequestWithOwner is the manager list view: request plus the owner's
// public profile fields.
type RequestWithOwner struct {
	Request
	OwnerName       string `json:"owner_name"`
	OwnerEmail      string `json:"owner_email"`
	OwnerDepartment string `json:"owner_department"`
	OwnerPolo       string `json:"owner_polo"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Request) CanBeDecided() bool {
	return r.Status == StatusPending
}

func ToDataModel(r *Request) *requestDatamodel.Request {
	dm := &requestDatamodel.Request{
		ID:              r.ID,
		UserID:          r.UserID,
		BenefitType:     r.BenefitType,
		Description:     r.Description,
		AmountCents:     r.AmountCents,
		Status:          r.Status,
		Polo:            r.Polo,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for i, d := range r.Dependents {
		dm.Dependents = append(dm.Dependents, requestDatamodel.Dependent{
			Name:         d.Name,
			Relationship: d.Relationship,
			Position:     i,
		})
	}
	return dm
}

func FromDataModel(dm *requestDatamodel.Request) *Request {
	r := &Request{
		ID:              dm.ID,
		UserID:          dm.UserID,
		BenefitType:     dm.BenefitType,
		Description:     dm.Description,
		AmountCents:     dm.AmountCents,
		Status:          dm.Status,
		Polo:            dm.Polo,
		ApprovedBy:      dm.ApprovedBy,
		ApprovedAt:      dm.ApprovedAt,
		RejectionReason: dm.RejectionReason,
		CreatedAt:       dm.CreatedAt,
		UpdatedAt:       dm.UpdatedAt,
	}
	for _, d := range dm.Dependents {
		r.Dependents = append(r.Dependents, Dependent{
			Name:         d.Name,
			Relationship: d.Relationship,
		})
	}
	return r
}

func FromDataModelWithOwner(dm *requestDatamodel.RequestWithOwner) *RequestWithOwner {
	return &RequestWithOwner{
		Request:         *FromDataModel(&dm.Request),
		OwnerName:       dm.OwnerName,
		OwnerEmail:      dm.OwnerEmail,
		OwnerDepartment: dm.OwnerDepartment,
		OwnerPolo:       dm.OwnerPolo,
	}
}

func FromDataModelSlice(dms []*requestDatamodel.Request) []*Request {
	result := make([]*Request, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}

func FromDataModelWithOwnerSlice(dms []*requestDatamodel.RequestWithOwner) []*RequestWithOwner {
	result := make([]*RequestWithOwner, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModelWithOwner(dm)
	}
	return result
}
