package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"studio8/config"
	"studio8/internal/database"
	"studio8/internal/domain"
	"studio8/internal/models"
	"studio8/internal/repository"
	"studio8/internal/testutil"
	"studio8/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUploader struct{ folder string }

func (f *fakeUploader) UploadImage(ctx context.Context, r io.Reader, folder, publicID string) (*cloudinary.UploadResult, error) {
	f.folder = folder
	return &cloudinary.UploadResult{URL: "https://res.cloudinary.com/demo/" + publicID, PublicID: publicID}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, publicID string) error { return nil }

type testApp struct {
	t   *testing.T
	srv *Server
	pkg *models.Package
}

func newTestApp(t *testing.T, cloud cloudinary.Uploader) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		Server:     config.ServerConfig{Env: "test", PublicRateLimit: 1000},
		JWT:        config.JWTConfig{AccessSecret: "router-test", AccessExpiry: time.Hour, Issuer: "studio8"},
		Cloudinary: config.CloudinaryConfig{Folder: "studio8"},
		Booking: config.BookingConfig{
			ExtraPersonCharge:  15000,
			GroupBaseHeadcount: 2,
			CodeAttempts:       10,
			NotifyTimeout:      time.Second,
		},
	}
	admin := config.AdminConfig{Email: "admin@studio8.id", Password: "admin12345", Name: "Admin"}
	require.NoError(t, database.RunMigrations(context.Background(), db, "../database/migrations", admin))

	pkg := &models.Package{Name: "Self Photo", IsActive: true, SubPackages: []models.SubPackage{{Name: "15 Menit", Price: 100000}}}
	require.NoError(t, repository.NewCatalogRepository(db).SavePackage(context.Background(), pkg))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := Setup(cfg, db, Deps{Log: logger, Cloud: cloud})
	t.Cleanup(srv.Notifier.Wait)
	return &testApp{t: t, srv: srv, pkg: pkg}
}

func (a *testApp) do(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.srv.Engine.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/v1/admin/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return body["access_token"].(string)
}

func (a *testApp) bookingForm(email string) gin.H {
	return gin.H{
		"name":             "Ani",
		"email":            email,
		"phone":            "+62 812-3456-7890",
		"package_id":       a.pkg.ID,
		"sub_package_id":   a.pkg.SubPackages[0].ID,
		"number_of_people": 1,
		"booking_date":     time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"payment_method":   "qris",
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)
	w, body := app.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestBookingLifecycle(t *testing.T) {
	app := newTestApp(t, nil)

	w, body := app.do(http.MethodGet, "/api/v1/catalog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["packages"], 1)

	w, body = app.do(http.MethodPost, "/api/v1/bookings", app.bookingForm("Ani@Example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	code := body["booking_code"].(string)
	assert.Regexp(t, `^S8-[A-Z0-9]{6}$`, code)
	assert.EqualValues(t, 100000, body["booking"].(map[string]interface{})["total_price"])

	w, _ = app.do(http.MethodGet, "/api/v1/bookings/lookup?code="+code+"&email=someone@example.com", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, body = app.do(http.MethodGet, "/api/v1/bookings/lookup?code="+code+"&email=ani@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.BookingPending, body["booking"].(map[string]interface{})["booking_status"])

	w, _ = app.do(http.MethodGet, "/api/v1/admin/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := app.login("admin@studio8.id", "admin12345")

	w, body = app.do(http.MethodGet, "/api/v1/admin/bookings", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])
	id := body["bookings"].([]interface{})[0].(map[string]interface{})["id"]
	path := "/api/v1/admin/bookings/" + jsonNumber(id)

	w, body = app.do(http.MethodPost, path+"/confirm", gin.H{"dp_amount": 50000}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 50000, body["booking"].(map[string]interface{})["remaining_balance"])

	w, body = app.do(http.MethodPost, path+"/complete", gin.H{"deliverable_link": "not a url"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "deliverable_link", body["field"])

	w, _ = app.do(http.MethodPost, path+"/complete", gin.H{"deliverable_link": "https://drive.example.com/ani"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = app.do(http.MethodPost, path+"/complete", gin.H{"deliverable_link": "https://drive.example.com/ani"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = app.do(http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["transactions"], 2)

	w, body = app.do(http.MethodGet, "/api/v1/loyalty/card?email=ani@example.com&phone=081234567890", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	card := body["card"].(map[string]interface{})
	assert.EqualValues(t, 100, card["loyalty_points"])
	assert.EqualValues(t, 1, card["total_bookings"])
	referralCode := card["referral_code"].(string)

	w, body = app.do(http.MethodGet, "/api/v1/referrals/"+referralCode+"?email=friend@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["valid"])
	assert.EqualValues(t, 35000, body["discount"])

	w, body = app.do(http.MethodGet, "/api/v1/referrals/"+referralCode+"?email=ani@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["valid"])

	app.srv.Notifier.Wait()
	w, body = app.do(http.MethodGet, "/api/v1/admin/notifications", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["unread"], "new booking, confirmed, completed")

	w, body = app.do(http.MethodGet, "/api/v1/admin/activity", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["activity"])

	w, body = app.do(http.MethodGet, "/api/v1/admin/activity?resource=booking", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var confirm map[string]interface{}
	for _, raw := range body["activity"].([]interface{}) {
		entry := raw.(map[string]interface{})
		if entry["action"] == "booking_confirm" {
			confirm = entry
		}
	}
	require.NotNil(t, confirm, "confirmation is on the activity trail")
	metadata := confirm["metadata"].(map[string]interface{})
	assert.EqualValues(t, 50000, metadata["dp_amount"])
}

func TestSubmitBookingValidationError(t *testing.T) {
	app := newTestApp(t, nil)
	form := app.bookingForm("not-an-email")
	w, body := app.do(http.MethodPost, "/api/v1/bookings", form, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", body["field"])

	form = app.bookingForm("ani@example.com")
	form["sub_package_id"] = "missing"
	w, body = app.do(http.MethodPost, "/api/v1/bookings", form, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", body["error"])
}

func TestStaffCannotUseAdminRoutes(t *testing.T) {
	app := newTestApp(t, nil)
	admin := app.login("admin@studio8.id", "admin12345")

	w, _ := app.do(http.MethodPost, "/api/v1/admin/staff", gin.H{
		"name": "Rina", "email": "rina@studio8.id", "password": "rahasia123", "role": "STAFF",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	staff := app.login("rina@studio8.id", "rahasia123")
	w, _ = app.do(http.MethodGet, "/api/v1/admin/bookings", nil, staff)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/admin/activity", nil, staff)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = app.do(http.MethodPut, "/api/v1/admin/settings/loyalty", gin.H{}, staff)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStaffReceivesNewBookingNotice(t *testing.T) {
	app := newTestApp(t, nil)
	admin := app.login("admin@studio8.id", "admin12345")
	w, _ := app.do(http.MethodPost, "/api/v1/admin/staff", gin.H{
		"name": "Rina", "email": "rina@studio8.id", "password": "rahasia123", "role": "STAFF",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	staff := app.login("rina@studio8.id", "rahasia123")

	w, _ = app.do(http.MethodPost, "/api/v1/bookings", app.bookingForm("ani@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app.srv.Notifier.Wait()

	for _, token := range []string{staff, admin} {
		w, body := app.do(http.MethodGet, "/api/v1/admin/notifications", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, body["unread"])
	}
}

func TestUploadPaymentProof(t *testing.T) {
	w := uploadPNG(t, newTestApp(t, nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "server configuration error")

	cloud := &fakeUploader{}
	w = uploadPNG(t, newTestApp(t, cloud))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://res.cloudinary.com/demo/")
	assert.Equal(t, "studio8/payment-proofs", cloud.folder)
}

func uploadPNG(t *testing.T, app *testApp) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="proof.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/payment-proof", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.srv.Engine.ServeHTTP(w, req)
	return w
}

func jsonNumber(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
