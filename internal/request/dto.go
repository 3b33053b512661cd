package request

import (
	errors "github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/core/common/validation"
)

// CreateRequestDTO is the payload accepted when a requester submits a new
// benefit request. Dependents are optional; attachments are uploaded in a
// separate step.
type CreateRequestDTO struct {
	BenefitType string      `json:"benefit_type"`
	Description string      `json:"description"`
	AmountCents int64       `json:"amount_cents"`
	Polo        string      `json:"polo"`
	Dependents  []Dependent `json:"dependents,omitempty"`
}

func (dto CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("benefit_type", dto.BenefitType).
		Required().
		OneOf(BenefitTypes, errors.ErrCodeInvalidBenefitType)
	v.Field("description", dto.Description).
		Required().
		MinLength(10).
		MaxLength(2000)
	v.Field("amount_cents", dto.AmountCents).
		Required().
		MinInt(1, errors.ErrCodeInvalidAmount)
	v.Field("polo", dto.Polo).
		Required().
		OneOf(Polos, errors.ErrCodeInvalidPolo)

	if err := v.Validate(); err != nil {
		return err
	}

	for _, d := range dto.Dependents {
		if d.Name == "" || d.Relationship == "" {
			return errors.NewValidationFieldError("dependents",
				"each dependent needs a name and a relationship", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}

// RejectRequestDTO carries the mandatory justification for a rejection.
type RejectRequestDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectRequestDTO) Validate() error {
	if dto.Reason == "" {
		return errors.NewValidationFieldError("reason",
			"reason is required when rejecting a request", errors.ErrCodeReasonRequired)
	}
	return nil
}
