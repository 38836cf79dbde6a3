// Package model содержит доменные сущности сервиса отправки заказов.
package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order описывает заказ магазина, ожидающий выдачи цифровых материалов.
type Order struct {
	ID        string
	Total     decimal.Decimal
	Email     string
	FirstName string
	LastName  string
	Products  []Product
	// TotalFiles содержит файлы всех товаров заказа без повторов (уникальны по FileName).
	TotalFiles []ProductFile
	// Status становится true только после успешной отправки и закрытия заказа.
	Status bool
}

// Product описывает одну позицию заказа.
type Product struct {
	Name         string
	PurchaseNote string
}

// ProductFile описывает файл, который нужно отправить покупателю.
type ProductFile struct {
	FileName string
	FileSize int64
}

// TotalFilesSize возвращает суммарный размер вложений заказа в байтах.
func (o *Order) TotalFilesSize() int64 {
	var sum int64
	for _, f := range o.TotalFiles {
		sum += f.FileSize
	}
	return sum
}

// FileNames возвращает пути ко всем файлам заказа.
func (o *Order) FileNames() []string {
	names := make([]string, 0, len(o.TotalFiles))
	for _, f := range o.TotalFiles {
		names = append(names, f.FileName)
	}
	return names
}

// DefaultCouponDays: срок действия купона по умолчанию.
const DefaultCouponDays = 7

// Coupon описывает одноразовый процентный купон на скидку.
type Coupon struct {
	Name            string
	DiscountPercent int
	Days            int
}

func (c Coupon) String() string {
	return fmt.Sprintf("%s (%d%%, %d days)", c.Name, c.DiscountPercent, c.Days)
}

// Letter описывает одно письмо покупателю.
type Letter struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// EmailFields содержит поля, подставляемые в шаблон письма.
type EmailFields struct {
	FirstName    string
	LastName     string
	ID           string
	EmailMessage string
}

// Outcome описывает итог обработки одного заказа.
type Outcome string

const (
	OutcomeDeliveredAndClosed Outcome = "DELIVERED_AND_CLOSED"
	OutcomeDeliveryFailed     Outcome = "DELIVERY_FAILED"
	OutcomeCloseFailed        Outcome = "CLOSE_FAILED"
)
