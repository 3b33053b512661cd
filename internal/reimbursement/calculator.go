// Package reimbursement holds the suggestion rule applied to new benefit
// requests. It is pure: no storage, no clock, no side effects.
package reimbursement

// FloorCents is the minimum guaranteed reimbursement. When 90% of the
// requester's salary would fall below it, the floor is suggested instead so
// the lowest-paid employees are reimbursed in full up to this amount.
const FloorCents int64 = 201836

// Suggest maps a gross monthly salary to a suggested reimbursement amount.
// Both values are in cents. Non-positive salaries yield no suggestion.
func Suggest(salaryCents int64) int64 {
	if salaryCents <= 0 {
		return 0
	}

	cap := salaryCents * 90 / 100
	if cap <= FloorCents {
		return FloorCents
	}
	return cap
}
