// Package coupon рассчитывает скидку по сумме заказа и выпускает купон в магазине.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

// maxAttempts: число попыток выпуска купона.
const maxAttempts = 3

// Tier описывает ступень скидки. Верхней границей ступени служит Min следующей.
type Tier struct {
	Min     decimal.Decimal
	Percent int
}

// Tiers упорядочены по возрастанию Min. Суммы ниже первой ступени скидки не получают.
var Tiers = []Tier{
	{Min: decimal.NewFromInt(10), Percent: 5},
	{Min: decimal.NewFromInt(1500), Percent: 10},
	{Min: decimal.NewFromInt(2500), Percent: 15},
	{Min: decimal.NewFromInt(3500), Percent: 20},
}

// DiscountPercent возвращает процент скидки для суммы заказа или 0.
func DiscountPercent(total decimal.Decimal) int {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if total.GreaterThanOrEqual(Tiers[i].Min) {
			return Tiers[i].Percent
		}
	}
	return 0
}

// Issuer выпускает купон во внешнем магазине.
type Issuer interface {
	PostCoupon(ctx context.Context, c model.Coupon, expires time.Time) error
}

// Options задаёт параметры выпуска купонов.
type Options struct {
	Days               int
	NoDiscountProducts []string
	RetryBase          time.Duration
}

// Engine решает, положен ли заказу купон, и выпускает его.
type Engine struct {
	issuer     Issuer
	logger     *zap.Logger
	days       int
	noDiscount []string
	retryBase  time.Duration

	now    func() time.Time
	suffix func() string
}

// NewEngine создаёт движок купонов.
func NewEngine(issuer Issuer, opts Options, logger *zap.Logger) *Engine {
	if opts.Days <= 0 {
		opts.Days = model.DefaultCouponDays
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = time.Second
	}
	noDiscount := make([]string, 0, len(opts.NoDiscountProducts))
	for _, name := range opts.NoDiscountProducts {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			noDiscount = append(noDiscount, name)
		}
	}
	return &Engine{
		issuer:     issuer,
		logger:     logger,
		days:       opts.Days,
		noDiscount: noDiscount,
		retryBase:  opts.RetryBase,
		now:        time.Now,
		suffix:     randomSuffix,
	}
}

// Eligible сообщает, может ли заказ получить купон. Заказ без скидочных
// товаров (все позиции из списка исключений) купона не получает.
func (e *Engine) Eligible(total decimal.Decimal, products []model.Product) bool {
	if !total.IsPositive() {
		return false
	}
	for _, p := range products {
		if !e.excluded(p.Name) {
			return true
		}
	}
	return false
}

func (e *Engine) excluded(name string) bool {
	name = strings.ToLower(name)
	for _, skip := range e.noDiscount {
		if strings.Contains(name, skip) {
			return true
		}
	}
	return false
}

// MaybeCreate выпускает купон для заказа. Возвращает nil без ошибки, если
// купон не положен, и nil с ошибкой, если выпустить его не удалось.
func (e *Engine) MaybeCreate(ctx context.Context, total decimal.Decimal, products []model.Product, firstName string) (*model.Coupon, error) {
	if !e.Eligible(total, products) {
		return nil, nil
	}

	percent := DiscountPercent(total)
	if percent == 0 {
		return nil, nil
	}

	c := model.Coupon{
		Name:            Code(firstName, e.suffix()),
		DiscountPercent: percent,
		Days:            e.days,
	}
	expires := e.now().AddDate(0, 0, c.Days)

	if err := e.issue(ctx, c, expires); err != nil {
		return nil, fmt.Errorf("issue coupon %s: %w", c.Name, err)
	}

	e.logger.Info("coupon issued", zap.Stringer("coupon", c), zap.Time("expires", expires))
	return &c, nil
}

func (e *Engine) issue(ctx context.Context, c model.Coupon, expires time.Time) error {
	attempt := 0
	b := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(e.retryBase))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := e.issuer.PostCoupon(ctx, c, expires)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
		e.logger.Warn("coupon issue attempt failed",
			zap.String("coupon", c.Name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return retry.RetryableError(err)
	})
}

// isPermanent сообщает, что повтор запроса не поможет (например, 4xx от магазина).
func isPermanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}
