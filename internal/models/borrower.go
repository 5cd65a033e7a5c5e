package models

import (
	"fmt"
	"strings"
)

// BusinessType is the fixed business classification used to choose the
// expense factor.
type BusinessType string

const (
	BusinessServices     BusinessType = "Services"
	BusinessSalesOfGoods BusinessType = "Sales of Goods"
)

// EmployeeBuckets are the selectable full-time employee counts on the intake
// form. Free-form values are tolerated downstream.
var EmployeeBuckets = []string{"Myself", "Me & 1 Other", "2-5", ">6"}

// BorrowerContext is the intake form supplied once per analysis run. It is an
// immutable input to the prompt builder.
type BorrowerContext struct {
	SubmittingEmail     string `json:"submittingEmail"`
	ClientName          string `json:"clientName"`
	BusinessName        string `json:"businessName"`
	BusinessType        string `json:"businessType"`
	NumEmployees        string `json:"numEmployees"`
	BusinessDescription string `json:"businessDescription"`
	OwnershipPercentage string `json:"ownershipPercentage"`
}

// OwnershipOrDefault returns the borrower's ownership percentage string, or
// "100" when the field was left blank.
func (b BorrowerContext) OwnershipOrDefault() string {
	if strings.TrimSpace(b.OwnershipPercentage) == "" {
		return "100"
	}
	return strings.TrimSpace(b.OwnershipPercentage)
}

// ValidationError reports missing or malformed intake fields. It is raised
// before any network call and is fully recoverable by user edit.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks the required intake fields and the business type
// enumeration. It returns a *ValidationError naming every problem at once so
// the form can surface them together.
func (b BorrowerContext) Validate() error {
	var missing []string
	if strings.TrimSpace(b.SubmittingEmail) == "" {
		missing = append(missing, "submittingEmail")
	}
	if strings.TrimSpace(b.ClientName) == "" {
		missing = append(missing, "clientName")
	}
	if strings.TrimSpace(b.BusinessName) == "" {
		missing = append(missing, "businessName")
	}
	switch BusinessType(b.BusinessType) {
	case BusinessServices, BusinessSalesOfGoods:
	default:
		missing = append(missing, "businessType")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
