package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

// Summarize строит отчёт о прогоне для операторов. Результат зависит только от заказов.
func Summarize(orders []*model.Order) string {
	var (
		lines  []string
		failed []string
		total  = decimal.Zero
	)

	for _, o := range orders {
		if !o.Status {
			failed = append(failed, fmt.Sprintf("%s - %s", o.ID, o.Email))
			continue
		}

		entry := fmt.Sprintf("#%s - %s %s, %s", o.ID, o.FirstName, o.LastName, o.Email)
		for _, p := range o.Products {
			entry += "\n · " + p.Name
		}
		entry += fmt.Sprintf("\n%s RUB", o.Total.StringFixed(2))
		lines = append(lines, entry)
		total = total.Add(o.Total)
	}

	if len(orders) > 1 {
		lines = append(lines, fmt.Sprintf("Total %d orders for %s RUB", len(orders), total.StringFixed(2)))
	}
	if len(failed) > 0 {
		lines = append(lines, "Errors:", strings.Join(failed, ", "))
	}
	return strings.Join(lines, "\n")
}
