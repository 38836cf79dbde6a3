package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

const separator = `<hr style="border-bottom: 0px">`

// productsBlock перечисляет товары заказа с заметками о покупке.
// Заметка содержит HTML из магазина и вставляется как есть.
func productsBlock(products []model.Product) string {
	var b strings.Builder
	b.WriteString(`<p><b color="blue">Order contents:</b></p><ul>`)
	for _, p := range products {
		b.WriteString(`<li><p><b color="blue">`)
		b.WriteString(html.EscapeString(p.Name))
		b.WriteString(`</b></p>`)
		if p.PurchaseNote != "" {
			b.WriteString("<p>" + p.PurchaseNote + "</p>")
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>` + separator)
	return b.String()
}

func couponBlock(c model.Coupon) string {
	return fmt.Sprintf(
		`<p>Thank you for choosing my materials! Here is a <b>%d %%</b> discount for you.<br />`+
			`Enter the promo code <b>%s</b> on the website and save on your next purchase!<br />`+
			`It is valid for %d days from the date of this purchase.</p>`+separator,
		c.DiscountPercent, c.Name, c.Days,
	)
}
