package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

func order(id, total, email string, status bool, products ...string) *model.Order {
	o := &model.Order{
		ID:        id,
		Total:     decimal.RequireFromString(total),
		Email:     email,
		FirstName: "Ann",
		LastName:  "Lee",
		Status:    status,
	}
	for _, p := range products {
		o.Products = append(o.Products, model.Product{Name: p})
	}
	return o
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		orders []*model.Order
		want   string
	}{
		{
			name:   "empty",
			orders: nil,
			want:   "",
		},
		{
			name:   "single success",
			orders: []*model.Order{order("1", "1800", "ann@example.com", true, "Workbook", "Slides")},
			want:   "#1 - Ann Lee, ann@example.com\n · Workbook\n · Slides\n1800.00 RUB",
		},
		{
			name: "one success one failure",
			orders: []*model.Order{
				order("1", "1800", "ann@example.com", true, "Workbook"),
				order("2", "999.5", "bob@example.com", false, "Slides"),
			},
			want: "#1 - Ann Lee, ann@example.com\n · Workbook\n1800.00 RUB\n" +
				"Total 2 orders for 1800.00 RUB\n" +
				"Errors:\n2 - bob@example.com",
		},
		{
			name: "all failed",
			orders: []*model.Order{
				order("1", "10", "ann@example.com", false),
				order("2", "20", "bob@example.com", false),
			},
			want: "Total 2 orders for 0.00 RUB\nErrors:\n1 - ann@example.com, 2 - bob@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.orders)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Summarize(tt.orders), "summary must be deterministic")
		})
	}
}

func TestSummarize_IgnoresFailedTotals(t *testing.T) {
	ok := order("1", "100.25", "ann@example.com", true)
	a := []*model.Order{ok, order("2", "50", "bob@example.com", false)}
	b := []*model.Order{ok, order("2", "99999", "bob@example.com", false)}

	assert.Equal(t, Summarize(a), Summarize(b))
	assert.Contains(t, Summarize(a), "for 100.25 RUB")
}
