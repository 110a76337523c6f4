package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      LineItem
		wantError bool
	}{
		{
			name: "valid item",
			item: LineItem{
				Description: "Filet z dorsza",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(10),
				Net:         decimal.NewFromInt(20),
				VATRate:     decimal.NewFromInt(23),
				VAT:         decimal.NewFromFloat(4.6),
				Gross:       decimal.NewFromFloat(24.6),
			},
			wantError: false,
		},
		{
			name:      "zero quantity allowed",
			item:      LineItem{Description: "placeholder"},
			wantError: false,
		},
		{
			name:      "negative quantity rejected",
			item:      LineItem{Quantity: decimal.NewFromInt(-1)},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestInvoice_Validate(t *testing.T) {
	valid := Invoice{
		Number:    "FV/1/2025",
		IssueDate: "2025-09-10",
		Currency:  "PLN",
	}

	tests := []struct {
		name      string
		mutate    func(inv *Invoice)
		wantError string
	}{
		{
			name:   "valid invoice",
			mutate: func(inv *Invoice) {},
		},
		{
			name:      "empty number",
			mutate:    func(inv *Invoice) { inv.Number = "  " },
			wantError: "number",
		},
		{
			name:      "malformed date",
			mutate:    func(inv *Invoice) { inv.IssueDate = "10.09.2025" },
			wantError: "issue date",
		},
		{
			name:      "bad currency",
			mutate:    func(inv *Invoice) { inv.Currency = "ZLOTY" },
			wantError: "currency",
		},
		{
			name: "invalid line item",
			mutate: func(inv *Invoice) {
				inv.LineItems = []LineItem{{Quantity: decimal.NewFromInt(-2)}}
			},
			wantError: "line item 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := valid
			tt.mutate(&inv)
			err := inv.Validate()
			if tt.wantError == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantError)
			}
		})
	}
}

func TestInvoice_HeaderRow(t *testing.T) {
	inv := Invoice{
		Number:     "INV-1",
		IssueDate:  "2025-01-15",
		Seller:     "Acme Sp. z o.o.",
		Buyer:      "Twoja Firma Sp. z o.o.",
		Currency:   "PLN",
		TotalNet:   decimal.NewFromInt(200),
		TotalVAT:   decimal.NewFromInt(46),
		TotalGross: decimal.NewFromInt(246),
	}

	row := inv.HeaderRow()
	if len(row) != 8 {
		t.Fatalf("HeaderRow() has %d columns, want 8", len(row))
	}
	if row[0] != "INV-1" || row[4] != "PLN" {
		t.Errorf("HeaderRow() = %v, wrong column order", row)
	}
	if row[7] != 246.0 {
		t.Errorf("HeaderRow() gross = %v, want 246.0", row[7])
	}
}

func TestInvoice_ItemRow(t *testing.T) {
	inv := Invoice{Number: "INV-1"}
	li := LineItem{
		Description: "Pozycja 1",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(50),
		Net:         decimal.NewFromInt(100),
		VATRate:     decimal.NewFromInt(23),
		VAT:         decimal.NewFromInt(23),
		Gross:       decimal.NewFromInt(123),
	}

	row := inv.ItemRow(li)
	if len(row) != 8 {
		t.Fatalf("ItemRow() has %d columns, want 8", len(row))
	}
	if row[0] != "INV-1" {
		t.Errorf("ItemRow() foreign key = %v, want INV-1", row[0])
	}
	if row[1] != "Pozycja 1" || row[7] != 123.0 {
		t.Errorf("ItemRow() = %v, wrong column order", row)
	}
}
