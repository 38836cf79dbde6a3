// Package service реализует конвейер выдачи заказов: письмо, купон, закрытие заказа, отчёт.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
	"github.com/dimk00z/woocommerce-orders-sender/internal/packer"
)

// DefaultDelay: пауза между заказами из-за лимитов почтового сервера.
const DefaultDelay = 45 * time.Second

// Storefront описывает операции магазина, нужные конвейеру.
type Storefront interface {
	CloseOrder(ctx context.Context, id string) error
}

// Mailer отправляет одно письмо.
type Mailer interface {
	Send(ctx context.Context, letter model.Letter) error
}

// CouponMaker выпускает купон на скидку, если он положен.
type CouponMaker interface {
	MaybeCreate(ctx context.Context, total decimal.Decimal, products []model.Product, firstName string) (*model.Coupon, error)
}

// Renderer собирает тело письма из шаблона.
type Renderer interface {
	Render(f model.EmailFields) (string, error)
}

// Options задаёт параметры конвейера.
type Options struct {
	MaxAttachmentSize int64
	Delay             time.Duration
}

// Service обрабатывает заказы строго последовательно.
type Service struct {
	storefront Storefront
	mailer     Mailer
	coupons    CouponMaker
	renderer   Renderer
	logger     *zap.Logger

	maxAttachmentSize int64
	delay             time.Duration
	sleep             func(ctx context.Context, d time.Duration) error
}

// NewService создаёт конвейер с указанными зависимостями.
func NewService(storefront Storefront, mailer Mailer, coupons CouponMaker, renderer Renderer, opts Options, logger *zap.Logger) *Service {
	return &Service{
		storefront:        storefront,
		mailer:            mailer,
		coupons:           coupons,
		renderer:          renderer,
		logger:            logger,
		maxAttachmentSize: opts.MaxAttachmentSize,
		delay:             opts.Delay,
		sleep:             sleep,
	}
}

// Handle обрабатывает заказы по порядку, выставляет каждому Status и
// возвращает итоговый отчёт. Ошибка возвращается только при отмене контекста.
func (s *Service) Handle(ctx context.Context, orders []*model.Order) (string, error) {
	for i, order := range orders {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		outcome := s.handleOrder(ctx, order)
		order.Status = outcome == model.OutcomeDeliveredAndClosed
		s.logger.Info("order handled",
			zap.String("order", order.ID),
			zap.String("email", order.Email),
			zap.String("outcome", string(outcome)),
		)

		if i == len(orders)-1 {
			break
		}
		if err := s.sleep(ctx, s.delay); err != nil {
			return "", err
		}
	}
	return Summarize(orders), nil
}

func (s *Service) handleOrder(ctx context.Context, order *model.Order) model.Outcome {
	body, err := s.renderer.Render(model.EmailFields{
		FirstName:    order.FirstName,
		LastName:     order.LastName,
		ID:           order.ID,
		EmailMessage: s.orderContent(ctx, order),
	})
	if err != nil {
		s.logger.Error("render email", zap.String("order", order.ID), zap.Error(err))
		return model.OutcomeDeliveryFailed
	}

	if !s.deliver(ctx, order, body) {
		return model.OutcomeDeliveryFailed
	}

	if err := s.storefront.CloseOrder(ctx, order.ID); err != nil {
		s.logger.Error("close order", zap.String("order", order.ID), zap.Error(err))
		return model.OutcomeCloseFailed
	}
	return model.OutcomeDeliveredAndClosed
}

// orderContent собирает HTML-блок письма и при возможности добавляет купон.
func (s *Service) orderContent(ctx context.Context, order *model.Order) string {
	content := productsBlock(order.Products)

	coupon, err := s.coupons.MaybeCreate(ctx, order.Total, order.Products, order.FirstName)
	if err != nil {
		s.logger.Error("create coupon", zap.String("order", order.ID), zap.Error(err))
		return content
	}
	if coupon != nil {
		content += couponBlock(*coupon)
	}
	return content
}

// deliver отправляет письмо целиком или частями. Успех только если ушли все части.
func (s *Service) deliver(ctx context.Context, order *model.Order, body string) bool {
	if order.TotalFilesSize() <= s.maxAttachmentSize {
		return s.send(ctx, order, model.Letter{
			To:          order.Email,
			Subject:     fmt.Sprintf("Order #%s", order.ID),
			Body:        body,
			Attachments: order.FileNames(),
		})
	}

	groups := packer.Pack(order.TotalFiles, s.maxAttachmentSize, packer.DefaultFillRatio)
	s.logger.Info("attachments split",
		zap.String("order", order.ID),
		zap.Int64("size", order.TotalFilesSize()),
		zap.Int("parts", len(groups)),
	)

	ok := true
	for i, group := range groups {
		sent := s.send(ctx, order, model.Letter{
			To:          order.Email,
			Subject:     fmt.Sprintf("Order #%s - part %d", order.ID, i+1),
			Body:        body,
			Attachments: group,
		})
		ok = ok && sent
	}
	return ok
}

func (s *Service) send(ctx context.Context, order *model.Order, letter model.Letter) bool {
	if err := s.mailer.Send(ctx, letter); err != nil {
		s.logger.Error("send email",
			zap.String("order", order.ID),
			zap.String("subject", letter.Subject),
			zap.Error(err),
		)
		return false
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
