package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mirrors the shape of the admin product payload
type testProductPayload struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required,oneof=thaalis loataas diyaas crafts"`
	Stock    int    `json:"stock" validate:"gte=0"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includeCategory bool) bool {
			reqMap := make(map[string]interface{})
			if includeName {
				reqMap["name"] = "Festive Thaali"
			}
			if includeCategory {
				reqMap["category"] = "thaalis"
			}

			allFieldsPresent := includeName && includeCategory

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload testProductPayload
			err := DecodeAndValidate(req, &payload)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestOneOfValidationRejectsUnknownCategory(t *testing.T) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"name":     "Woven Basket",
		"category": "baskets",
	})
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var payload testProductPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("Expected validation error for unknown category")
	}

	errs := FormatValidationErrors(err)
	if len(errs) == 0 {
		t.Fatal("Expected formatted validation errors")
	}
	if errs[0].Field != "Category" {
		t.Errorf("Expected Category field error, got %s", errs[0].Field)
	}
}

func TestNegativeStockRejected(t *testing.T) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"name":     "Clay Diyaa Set",
		"category": "diyaas",
		"stock":    -1,
	})
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var payload testProductPayload
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("Expected validation error for negative stock")
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var payload testProductPayload
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("Expected decode error for malformed JSON")
	}

	// Decode failures are not field validation errors
	if errs := FormatValidationErrors(err); len(errs) != 0 {
		t.Errorf("Expected no formatted errors for decode failure, got %v", errs)
	}
}

func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func(stock int) bool {
			reqBody, _ := json.Marshal(map[string]interface{}{
				"category": "thaalis",
				"stock":    stock,
			})
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload testProductPayload
			err := DecodeAndValidate(req, &payload)
			if err == nil {
				return false // name is always missing
			}

			for _, ve := range FormatValidationErrors(err) {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
