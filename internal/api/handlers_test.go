package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/engine"
	"github.com/gibbs-bakehouse/stampcard/internal/logging"
	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
	"github.com/gibbs-bakehouse/stampcard/internal/testutil"
)

const (
	testPhone = "0412345678"
	testCode  = "209254"
	testPIN   = loyalty.DefaultMerchantPIN
)

type testServer struct {
	handler http.Handler
	engine  *engine.Engine
	kv      *testutil.MemoryKV
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	kv := testutil.NewMemoryKV()
	e, err := engine.New(context.Background(), kv,
		engine.WithClock(testutil.NewFixedClock(time.Time{})),
		engine.WithIDGenerator(testutil.NewSequenceGenerator("id")),
		engine.WithLogger(logging.Discard()),
	)
	require.NoError(t, err)

	return &testServer{
		handler: NewHandler(e, logging.Discard()).Router(),
		engine:  e,
		kv:      kv,
	}
}

// do sends a request with an optional JSON body and PIN header.
func (s *testServer) do(t *testing.T, method, path string, body any, pin string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if pin != "" {
		req.Header.Set(PINHeader, pin)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func (s *testServer) signIn(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/customers/signin", SignInRequest{Phone: testPhone, Name: "Ada"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetBakery(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/bakery", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	b := decodeBody[loyalty.BakeryConfig](t, rec)
	assert.Equal(t, loyalty.DefaultBakery(), b)
}

func TestSignIn(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/customers/signin", SignInRequest{Phone: "0412 345 678", Name: "Ada"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	card := decodeBody[CardResponse](t, rec)
	assert.True(t, card.Created)
	assert.Equal(t, testPhone, card.Phone)
	assert.Equal(t, testCode, card.Code)
	assert.Equal(t, 10, card.Progress.Needed)

	rec = s.do(t, http.MethodPost, "/customers/signin", SignInRequest{Phone: testPhone, Name: "Other"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	card = decodeBody[CardResponse](t, rec)
	assert.False(t, card.Created)
	assert.Equal(t, "Ada", card.Name)
}

func TestSignIn_Invalid(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/customers/signin", SignInRequest{Phone: "abc"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[ErrorBody](t, rec)
	assert.Equal(t, "VALIDATION", body.Error.Code)
	assert.Equal(t, "phone", body.Error.Field)
}

func TestSignIn_UnknownField(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/customers/signin", map[string]string{"telephone": testPhone}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.engine.Customers())
}

func TestLookup(t *testing.T) {
	s := newTestServer(t)
	s.signIn(t)

	rec := s.do(t, http.MethodGet, "/customers/lookup?q="+testCode, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testPhone, decodeBody[CardResponse](t, rec).Phone)

	rec = s.do(t, http.MethodGet, "/customers/lookup?q=0499999999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[ErrorBody](t, rec).Error.Code)
}

func TestStampAndRedeem(t *testing.T) {
	s := newTestServer(t)
	s.signIn(t)

	for i := 0; i < 10; i++ {
		rec := s.do(t, http.MethodPost, "/staff/stamp", StampRequest{Query: testCode, Amount: 12}, testPIN)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodPost, "/staff/redeem", RedeemRequest{Query: testPhone}, testPIN)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[RedeemResponse](t, rec)
	assert.Equal(t, 10, resp.DiscountPercent)
	assert.Equal(t, 0, resp.Stamps)
	assert.Equal(t, 1, resp.RewardsRedeemed)
}

func TestStamp_Errors(t *testing.T) {
	s := newTestServer(t)
	s.signIn(t)

	tests := []struct {
		name   string
		req    StampRequest
		status int
		code   string
	}{
		{"below minimum", StampRequest{Query: testPhone, Amount: 5}, http.StatusUnprocessableEntity, "VALIDATION"},
		{"unknown customer", StampRequest{Query: "0499999999", Amount: 20}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/staff/stamp", tt.req, testPIN)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeBody[ErrorBody](t, rec).Error.Code)
		})
	}
}

func TestStaffRoutes_WrongPINRejected(t *testing.T) {
	s := newTestServer(t)
	s.signIn(t)
	putsBefore := s.kv.Puts()

	for _, pin := range []string{"", "0000"} {
		rec := s.do(t, http.MethodPost, "/staff/stamp", StampRequest{Query: testPhone, Amount: 20}, pin)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeBody[ErrorBody](t, rec).Error.Code)

		rec = s.do(t, http.MethodPost, "/staff/redeem", RedeemRequest{Query: testPhone}, pin)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	c, err := s.engine.Lookup(testPhone)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Stamps)
	assert.Equal(t, putsBefore, s.kv.Puts(), "rejected requests must not save")
}

func TestRedeem_InsufficientStamps(t *testing.T) {
	s := newTestServer(t)
	s.signIn(t)

	rec := s.do(t, http.MethodPost, "/staff/redeem", RedeemRequest{Query: testPhone}, testPIN)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STAMPS", decodeBody[ErrorBody](t, rec).Error.Code)
}

func TestSpecials(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/specials/today", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]loyalty.Special](t, rec), 1, "seeded special")

	in := loyalty.SpecialInput{Title: "Cardamom Bun", Price: "$4"}
	rec = s.do(t, http.MethodPost, "/specials", in, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/specials", in, testPIN)
	require.Equal(t, http.StatusCreated, rec.Code)
	sp := decodeBody[loyalty.Special](t, rec)
	assert.Equal(t, "Cardamom Bun", sp.Title)
	assert.Equal(t, "2024-03-01", sp.Day)

	rec = s.do(t, http.MethodGet, "/specials/today", nil, "")
	today := decodeBody[[]loyalty.Special](t, rec)
	require.Len(t, today, 2)
	assert.Equal(t, "Cardamom Bun", today[0].Title)

	rec = s.do(t, http.MethodPost, "/specials", loyalty.SpecialInput{Title: " "}, testPIN)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdmin_RequiresPIN(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/admin/activity", "/admin/settings"} {
		rec := s.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		rec = s.do(t, http.MethodGet, path, nil, "9999")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdmin_Activity(t *testing.T) {
	s := newTestServer(t)
	s.signIn(t)
	s.do(t, http.MethodPost, "/staff/stamp", StampRequest{Query: testPhone, Amount: 20}, testPIN)

	rec := s.do(t, http.MethodGet, "/admin/activity?limit=1", nil, testPIN)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody[[]loyalty.ActivityEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, loyalty.ActivityStamp, entries[0].Type)

	rec = s.do(t, http.MethodGet, "/admin/activity", nil, testPIN)
	assert.Len(t, decodeBody[[]loyalty.ActivityEntry](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/admin/activity?limit=x", nil, testPIN)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdmin_Settings(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/settings", nil, testPIN)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), testPIN)

	rec = s.do(t, http.MethodPut, "/admin/settings", map[string]any{
		"stampsPerReward": 5,
		"discountPercent": 20,
	}, testPIN)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pub := decodeBody[loyalty.PublicSettings](t, rec)
	assert.Equal(t, 5, pub.StampsPerReward)
	assert.Equal(t, 20, pub.DiscountPercent)
	assert.Equal(t, 10.0, pub.MinSpendPerStamp, "omitted fields keep their value")
	assert.Equal(t, testPIN, s.engine.Settings().MerchantPIN)

	rec = s.do(t, http.MethodPut, "/admin/settings", map[string]any{"stampsPerReward": 0}, testPIN)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 5, s.engine.Settings().StampsPerReward)
}

func TestAdmin_SettingsPINChange(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/admin/settings", map[string]any{"merchantPIN": "2468"}, testPIN)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/admin/settings", nil, testPIN)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodGet, "/admin/settings", nil, "2468")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSaveFailure_SetsWarning(t *testing.T) {
	s := newTestServer(t)
	s.kv.FailPuts(true)

	rec := s.do(t, http.MethodPost, "/customers/signin", SignInRequest{Phone: testPhone}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(WarningHeader), "SAVE_FAILED"))

	_, err := s.engine.Lookup(testPhone)
	assert.NoError(t, err, "change kept in memory")
}
