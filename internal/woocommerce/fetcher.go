package woocommerce

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

type rawOrder struct {
	ID      int64           `json:"id"`
	Total   decimal.Decimal `json:"total"`
	Billing struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"billing"`
	LineItems []rawLineItem `json:"line_items"`
}

type rawLineItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}

type rawProduct struct {
	PurchaseNote string `json:"purchase_note"`
	Downloads    []struct {
		File string `json:"file"`
	} `json:"downloads"`
}

// FetchOrders возвращает заказы в статусе processing вместе с товарами и файлами.
// Ошибки логируются: при недоступном списке заказов возвращается пустой срез.
func (c *Client) FetchOrders(ctx context.Context) []*model.Order {
	var raw []rawOrder
	params := url.Values{"status": {"processing"}, "per_page": {"100"}}
	if err := c.getJSON(ctx, "/orders", params, &raw); err != nil {
		c.logger.Error("fetch processing orders", zap.Error(err))
		return nil
	}

	orders := make([]*model.Order, 0, len(raw))
	for _, ro := range raw {
		if c.debug && ro.Billing.Email != c.debugEmail {
			continue
		}
		orders = append(orders, c.enrich(ctx, ro))
	}

	c.logger.Info("orders fetched", zap.Int("received", len(raw)), zap.Int("kept", len(orders)))
	return orders
}

func (c *Client) enrich(ctx context.Context, ro rawOrder) *model.Order {
	order := &model.Order{
		ID:        strconv.FormatInt(ro.ID, 10),
		Total:     ro.Total,
		Email:     ro.Billing.Email,
		FirstName: ro.Billing.FirstName,
		LastName:  ro.Billing.LastName,
	}

	files := make(map[string]struct{})
	for _, item := range ro.LineItems {
		product := model.Product{Name: c.sanitizeName(item.Name)}

		var rp rawProduct
		path := "/products/" + strconv.FormatInt(item.ProductID, 10)
		if err := c.getJSON(ctx, path, nil, &rp); err != nil {
			c.logger.Error("fetch product",
				zap.String("order", order.ID),
				zap.Int64("product", item.ProductID),
				zap.Error(err),
			)
			order.Products = append(order.Products, product)
			continue
		}

		product.PurchaseNote = rp.PurchaseNote
		for _, d := range rp.Downloads {
			if d.File != "" {
				files[c.resolvePath(d.File)] = struct{}{}
			}
		}
		order.Products = append(order.Products, product)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	order.TotalFiles = make([]model.ProductFile, 0, len(names))
	for _, name := range names {
		size, err := c.stat(name)
		if err != nil {
			c.logger.Error("stat deliverable", zap.String("order", order.ID), zap.String("file", name), zap.Error(err))
		}
		order.TotalFiles = append(order.TotalFiles, model.ProductFile{FileName: name, FileSize: size})
	}

	return order
}

func (c *Client) sanitizeName(name string) string {
	if c.redundantPhrase == "" {
		return name
	}
	for strings.Contains(name, c.redundantPhrase) {
		name = strings.ReplaceAll(name, c.redundantPhrase, "")
	}
	return name
}

// resolvePath переводит ссылку на загрузку в путь на локальном диске.
func (c *Client) resolvePath(file string) string {
	u, err := url.Parse(file)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || c.filesRoot == "" {
		return file
	}
	return filepath.Join(c.filesRoot, filepath.FromSlash(u.Path))
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
