package models

import (
	"errors"
	"strings"
	"testing"
)

func validBorrower() BorrowerContext {
	return BorrowerContext{
		SubmittingEmail: "lender@example.com",
		ClientName:      "Jordan Smith",
		BusinessName:    "Acme LLC",
		BusinessType:    string(BusinessServices),
	}
}

func TestBorrowerValidateAccepts(t *testing.T) {
	for _, bt := range []BusinessType{BusinessServices, BusinessSalesOfGoods} {
		b := validBorrower()
		b.BusinessType = string(bt)
		if err := b.Validate(); err != nil {
			t.Errorf("Validate() with type %q returned %v", bt, err)
		}
	}
}

func TestBorrowerValidateCollectsAllMissing(t *testing.T) {
	b := BorrowerContext{BusinessType: "Consulting"}
	err := b.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	want := []string{"submittingEmail", "clientName", "businessName", "businessType"}
	if len(vErr.Missing) != len(want) {
		t.Fatalf("Missing = %v, want %v", vErr.Missing, want)
	}
	for i, field := range want {
		if vErr.Missing[i] != field {
			t.Errorf("Missing[%d] = %q, want %q", i, vErr.Missing[i], field)
		}
	}
	for _, field := range want {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error message should mention %q: %q", field, err.Error())
		}
	}
}

func TestBorrowerValidateRejectsWhitespaceOnly(t *testing.T) {
	b := validBorrower()
	b.ClientName = "   "
	err := b.Validate()
	if err == nil {
		t.Fatal("expected validation error for whitespace-only clientName")
	}
}

func TestOwnershipOrDefault(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "100"},
		{"  ", "100"},
		{"75", "75"},
		{" 51 ", "51"},
	}
	for _, tt := range tests {
		b := BorrowerContext{OwnershipPercentage: tt.in}
		if got := b.OwnershipOrDefault(); got != tt.want {
			t.Errorf("OwnershipOrDefault(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskAccountNumber(t *testing.T) {
	if got := MaskAccountNumber("4821"); got != "****4821" {
		t.Errorf("MaskAccountNumber(4821) = %q, want ****4821", got)
	}
	if got := MaskAccountNumber(""); got != "****" {
		t.Errorf("MaskAccountNumber(\"\") = %q, want ****", got)
	}
}
