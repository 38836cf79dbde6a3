// Package main запускает один прогон отправки оплаченных заказов WooCommerce.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dimk00z/woocommerce-orders-sender/internal/config"
	"github.com/dimk00z/woocommerce-orders-sender/internal/coupon"
	"github.com/dimk00z/woocommerce-orders-sender/internal/logger"
	"github.com/dimk00z/woocommerce-orders-sender/internal/mailer"
	"github.com/dimk00z/woocommerce-orders-sender/internal/notifier"
	"github.com/dimk00z/woocommerce-orders-sender/internal/render"
	"github.com/dimk00z/woocommerce-orders-sender/internal/service"
	"github.com/dimk00z/woocommerce-orders-sender/internal/woocommerce"
)

func main() {
	base, err := logger.New(false)
	if err != nil {
		base = zap.NewNop()
	}
	defer base.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, base)
}

// run выполняет прогон целиком. Любая ошибка или паника логируется,
// процесс при этом завершается штатно.
func run(ctx context.Context, base *zap.Logger) {
	log := base
	defer func() {
		if r := recover(); r != nil {
			log.Error("run panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	cfg, err := config.Parse()
	if err != nil {
		log.Error("configuration error", zap.Error(err))
		return
	}

	base = runLogger(base, cfg.Debug)
	defer base.Sync()
	log = base

	tg, err := notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.UsersID, base)
	if err != nil {
		log.Error("telegram initialization error", zap.Error(err))
	} else {
		log = logger.WithSink(base, tg, zapcore.ErrorLevel)
	}

	shop := woocommerce.NewClient(woocommerce.Settings{
		URL:             cfg.WooCommerce.URL,
		UserKey:         cfg.WooCommerce.UserKey,
		SecretKey:       cfg.WooCommerce.SecretKey,
		Timeout:         cfg.WooCommerce.Timeout,
		RedundantPhrase: cfg.WooCommerce.RedundantPhrase,
		FilesRoot:       cfg.WooCommerce.FilesRoot,
		Debug:           cfg.Debug,
		DebugEmail:      cfg.WooCommerce.DebugEmail,
	}, log)

	orders := shop.FetchOrders(ctx)
	if len(orders) == 0 {
		log.Info("no orders to process")
		return
	}

	renderer, err := render.New(cfg.EmailTemplate)
	if err != nil {
		log.Error("email template error", zap.Error(err))
		return
	}

	coupons := coupon.NewEngine(shop, coupon.Options{
		Days:               cfg.Coupon.Days,
		NoDiscountProducts: cfg.Coupon.NoDiscountProducts,
		RetryBase:          cfg.Coupon.RetryBase,
	}, log)

	sender := mailer.NewSender(mailer.Settings{
		Sender:      cfg.Email.Sender,
		Password:    cfg.Email.Password,
		DisplayName: cfg.Email.DisplayName,
		Host:        cfg.Email.SMTPServer,
		Port:        cfg.Email.SMTPPort,
	})

	svc := service.NewService(shop, sender, coupons, renderer, service.Options{
		MaxAttachmentSize: cfg.Email.MaxAttachmentSize,
		Delay:             cfg.OrderDelay,
	}, log)

	log.Info("processing orders", zap.Int("count", len(orders)))
	summary, err := svc.Handle(ctx, orders)
	if err != nil {
		log.Error("run interrupted", zap.Error(err))
		return
	}

	if tg != nil {
		tg.Send(ctx, summary)
	}
	log.Info("run finished", zap.String("summary", summary))
}

// runLogger заменяет стартовый журнал на development-вариант в режиме отладки.
func runLogger(bootstrap *zap.Logger, debug bool) *zap.Logger {
	if !debug {
		return bootstrap
	}
	l, err := logger.New(true)
	if err != nil {
		bootstrap.Warn("development logger unavailable", zap.Error(err))
		return bootstrap
	}
	return l
}
