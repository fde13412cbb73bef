package model

import (
	"testing"
	"time"
)

func TestOrderRecord_Validate(t *testing.T) {
	date := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		order   OrderRecord
		wantErr bool
	}{
		{
			name: "valid order",
			order: OrderRecord{
				Date:   date,
				Vendor: "Swiggy",
				Amount: 250.00,
			},
			wantErr: false,
		},
		{
			name: "missing date",
			order: OrderRecord{
				Vendor: "Swiggy",
				Amount: 250.00,
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			order: OrderRecord{
				Date:   date,
				Vendor: "Swiggy",
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			order: OrderRecord{
				Date:   date,
				Vendor: "Swiggy",
				Amount: -10,
			},
			wantErr: true,
		},
		{
			name: "missing vendor",
			order: OrderRecord{
				Date:   date,
				Amount: 250.00,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderRecord_GenerateHash(t *testing.T) {
	date := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	a := OrderRecord{Date: date, Vendor: "Swiggy", Subject: "Order delivered", Amount: 250}
	b := OrderRecord{Date: date, Vendor: "Swiggy", Subject: "Order delivered", Amount: 250}
	c := OrderRecord{Date: date, Vendor: "Swiggy", Subject: "Order delivered", Amount: 251}

	if a.GenerateHash() != b.GenerateHash() {
		t.Error("identical orders should produce identical hashes")
	}
	if a.GenerateHash() == c.GenerateHash() {
		t.Error("different amounts should produce different hashes")
	}
}

func TestBudgetState_Validate(t *testing.T) {
	tests := []struct {
		name    string
		state   BudgetState
		wantErr bool
	}{
		{
			name:    "valid state",
			state:   BudgetState{Email: "user@example.com", Budget: 5000, Vendors: []string{"Swiggy"}},
			wantErr: false,
		},
		{
			name:    "missing email",
			state:   BudgetState{Budget: 5000, Vendors: []string{"Swiggy"}},
			wantErr: true,
		},
		{
			name:    "zero budget",
			state:   BudgetState{Email: "user@example.com", Vendors: []string{"Swiggy"}},
			wantErr: true,
		},
		{
			name:    "no vendors",
			state:   BudgetState{Email: "user@example.com", Budget: 5000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
