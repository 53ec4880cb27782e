// Regboard - User Registration Analytics Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/regboard

package validation

import (
	"strings"
	"testing"
)

type trendsParams struct {
	Days int `validate:"min=1,max=30"`
}

type limitParams struct {
	Limit int `validate:"min=1,max=100"`
}

type multiParams struct {
	Days  int    `validate:"min=1,max=30"`
	Email string `validate:"required,email"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&trendsParams{Days: 7}); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
	if err := ValidateStruct(&limitParams{Limit: 100}); err != nil {
		t.Errorf("ValidateStruct() at boundary = %v, want nil", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"days too low", &trendsParams{Days: 0}, "Days", "min"},
		{"days too high", &trendsParams{Days: 31}, "Days", "max"},
		{"limit too high", &limitParams{Limit: 101}, "Limit", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(errs))
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&limitParams{Limit: 0})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Limit") {
		t.Errorf("Message %q does not mention the field", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details field = %v, want Limit", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&multiParams{Days: 0, Email: "not-an-email"})
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details fields has unexpected type %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("Expected 2 field entries, got %d", len(fields))
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("Combined message %q missing separator", apiErr.Message)
	}
}

func TestValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
