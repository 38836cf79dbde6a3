package coupon

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type permanentErr struct{}

func (permanentErr) Error() string   { return "bad request" }
func (permanentErr) Permanent() bool { return true }

type stubIssuer struct {
	errs    []error
	calls   int
	coupon  model.Coupon
	expires time.Time
}

func (s *stubIssuer) PostCoupon(ctx context.Context, c model.Coupon, expires time.Time) error {
	s.calls++
	s.coupon = c
	s.expires = expires
	if len(s.errs) >= s.calls {
		return s.errs[s.calls-1]
	}
	return nil
}

func newTestEngine(issuer Issuer) *Engine {
	e := NewEngine(issuer, Options{
		Days:               7,
		NoDiscountProducts: []string{"Оплата занятий"},
		RetryBase:          time.Millisecond,
	}, zap.NewNop())
	e.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	e.suffix = func() string { return "a1b2c3d4" }
	return e
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		total string
		want  int
	}{
		{"0", 0},
		{"5", 0},
		{"9.99", 0},
		{"10", 5},
		{"1499", 5},
		{"1499.50", 5},
		{"1500", 10},
		{"1800", 10},
		{"2499", 10},
		{"2500", 15},
		{"3499", 15},
		{"3500", 20},
		{"1000000", 20},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(d(tt.total)))
		})
	}
}

func TestEligible(t *testing.T) {
	e := newTestEngine(&stubIssuer{})

	tests := []struct {
		name     string
		total    string
		products []model.Product
		want     bool
	}{
		{
			name:     "regular product",
			total:    "100",
			products: []model.Product{{Name: "Workbook"}},
			want:     true,
		},
		{
			name:     "zero total",
			total:    "0",
			products: []model.Product{{Name: "Workbook"}},
			want:     false,
		},
		{
			name:     "only excluded products",
			total:    "2000",
			products: []model.Product{{Name: "ОПЛАТА ЗАНЯТИЙ (март)"}, {Name: "оплата занятий"}},
			want:     false,
		},
		{
			name:     "mixed products",
			total:    "2000",
			products: []model.Product{{Name: "Оплата занятий"}, {Name: "Workbook"}},
			want:     true,
		},
		{
			name:     "no products",
			total:    "2000",
			products: nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Eligible(d(tt.total), tt.products))
		})
	}
}

func TestMaybeCreate_IssuesTieredCoupon(t *testing.T) {
	issuer := &stubIssuer{}
	e := newTestEngine(issuer)

	c, err := e.MaybeCreate(context.Background(), d("1800"), []model.Product{{Name: "Workbook"}}, "Анна Ирина")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, 10, c.DiscountPercent)
	assert.Equal(t, 7, c.Days)
	assert.Equal(t, "anna_irina_a1b2c3d4", c.Name)
	assert.Equal(t, 1, issuer.calls)
	assert.Equal(t, *c, issuer.coupon)
	assert.Equal(t, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC), issuer.expires)
}

func TestMaybeCreate_NoCouponBelowFirstTier(t *testing.T) {
	issuer := &stubIssuer{}
	e := newTestEngine(issuer)

	c, err := e.MaybeCreate(context.Background(), d("5"), []model.Product{{Name: "Workbook"}}, "Ann")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Zero(t, issuer.calls)
}

func TestMaybeCreate_RetriesTransientErrors(t *testing.T) {
	issuer := &stubIssuer{errs: []error{errors.New("connection reset"), errors.New("timeout")}}
	e := newTestEngine(issuer)

	c, err := e.MaybeCreate(context.Background(), d("3600"), []model.Product{{Name: "Workbook"}}, "Ann")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 20, c.DiscountPercent)
	assert.Equal(t, 3, issuer.calls)
}

func TestMaybeCreate_GivesUpAfterThreeAttempts(t *testing.T) {
	transient := errors.New("connection refused")
	issuer := &stubIssuer{errs: []error{transient, transient, transient, transient}}
	e := newTestEngine(issuer)

	c, err := e.MaybeCreate(context.Background(), d("2600"), []model.Product{{Name: "Workbook"}}, "Ann")
	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Nil(t, c)
	assert.Equal(t, 3, issuer.calls)
}

func TestMaybeCreate_StopsOnPermanentError(t *testing.T) {
	issuer := &stubIssuer{errs: []error{permanentErr{}}}
	e := newTestEngine(issuer)

	c, err := e.MaybeCreate(context.Background(), d("2600"), []model.Product{{Name: "Workbook"}}, "Ann")
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 1, issuer.calls)
}

func TestCode(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9_]+$`)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"cyrillic", "Анна", "anna_deadbeef"},
		{"with spaces", "  Анна   Ирина ", "anna_irina_deadbeef"},
		{"latin", "John", "john_deadbeef"},
		{"diacritics", "José", "jose_deadbeef"},
		{"punctuation", "O'Neil-Smith!", "oneilsmith_deadbeef"},
		{"soft sign", "Игорь", "igor_deadbeef"},
		{"greek", "Νίκος", "nikos_deadbeef"},
		{"empty", "", "deadbeef"},
		{"only symbols", "***", "deadbeef"},
		{"symbol token skipped", "Kate ***", "kate_deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Code(tt.in, "deadbeef")
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, valid, got)
		})
	}
}

func TestCode_NonLatinScriptsKeepName(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9_]+$`)

	for _, name := range []string{"李", "ნინო", "Արամ", "さくら", "Kate 🌸"} {
		t.Run(name, func(t *testing.T) {
			got := Code(name, "deadbeef")
			assert.Regexp(t, valid, got)
			assert.NotEqual(t, "deadbeef", got, "name part must survive transliteration")
			assert.True(t, strings.HasSuffix(got, "_deadbeef"))
		})
	}
}

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "anna", Transliterate("АННА"))
	assert.Equal(t, "zoe", Transliterate("Zoë"))
}

func TestRandomSuffix(t *testing.T) {
	s := randomSuffix()
	assert.Regexp(t, `^[0-9a-f]{8}$`, s)
	assert.NotEqual(t, s, randomSuffix())
}
