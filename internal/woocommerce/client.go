// Package woocommerce предоставляет клиент REST API магазина WooCommerce.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

const apiPath = "/wp-json/wc/v3"

// Settings содержит параметры подключения к магазину и разбора заказов.
type Settings struct {
	URL             string
	UserKey         string
	SecretKey       string
	Timeout         time.Duration
	RedundantPhrase string
	FilesRoot       string
	Debug           bool
	DebugEmail      string
}

// StatusError описывает ответ магазина с неожиданным HTTP-статусом.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Permanent сообщает, что повтор запроса не изменит результат.
func (e *StatusError) Permanent() bool {
	return e.Code >= 400 && e.Code < 500 && e.Code != http.StatusTooManyRequests
}

// Client инкапсулирует HTTP-взаимодействие с WooCommerce.
// Чтение идёт через клиент с повторами, изменения выполняются один раз.
type Client struct {
	baseURL   string
	userKey   string
	secretKey string
	http      *retryablehttp.Client
	plain     *http.Client
	logger    *zap.Logger

	redundantPhrase string
	filesRoot       string
	debug           bool
	debugEmail      string
	stat            func(path string) (int64, error)
}

// NewClient создаёт клиент магазина по указанным настройкам.
func NewClient(s Settings, logger *zap.Logger) *Client {
	base := strings.TrimRight(s.URL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if !strings.HasSuffix(base, apiPath) {
		base += apiPath
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = leveledLogger{logger.Sugar()}

	return &Client{
		baseURL:         base,
		userKey:         s.UserKey,
		secretKey:       s.SecretKey,
		http:            rc,
		plain:           rc.HTTPClient,
		logger:          logger,
		redundantPhrase: s.RedundantPhrase,
		filesRoot:       s.FilesRoot,
		debug:           s.Debug,
		debugEmail:      s.DebugEmail,
		stat:            fileSize,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.userKey, c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Method: http.MethodGet, URL: c.baseURL + path, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.userKey, c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.plain.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// CloseOrder переводит заказ в статус completed. Успехом считается только ответ 200.
func (c *Client) CloseOrder(ctx context.Context, id string) error {
	path := "/orders/" + url.PathEscape(id)
	code, err := c.sendJSON(ctx, http.MethodPut, path, map[string]string{"status": "completed"})
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return &StatusError{Method: http.MethodPut, URL: c.baseURL + path, Code: code}
	}
	return nil
}

type couponRequest struct {
	Code          string `json:"code"`
	DiscountType  string `json:"discount_type"`
	Amount        string `json:"amount"`
	DateExpires   string `json:"date_expires"`
	IndividualUse bool   `json:"individual_use"`
	UsageLimit    int    `json:"usage_limit"`
}

// PostCoupon создаёт в магазине одноразовый процентный купон.
func (c *Client) PostCoupon(ctx context.Context, cp model.Coupon, expires time.Time) error {
	code, err := c.sendJSON(ctx, http.MethodPost, "/coupons", couponRequest{
		Code:          cp.Name,
		DiscountType:  "percent",
		Amount:        strconv.Itoa(cp.DiscountPercent),
		DateExpires:   expires.Format(time.DateOnly),
		IndividualUse: true,
		UsageLimit:    1,
	})
	if err != nil {
		return err
	}
	if code < 200 || code >= 300 {
		return &StatusError{Method: http.MethodPost, URL: c.baseURL + "/coupons", Code: code}
	}
	return nil
}

// leveledLogger направляет журнал повторов retryablehttp в zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
