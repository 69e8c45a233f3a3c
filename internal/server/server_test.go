package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/civicux/civicux-api/internal/catalog"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/civicux/civicux-api/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	env := testutil.NewEnv(t)
	require.NoError(t, services.NewGamificationService(env.DB).SeedAchievements())
	rewards, err := catalog.Load("")
	require.NoError(t, err)
	return New(env.Config, env.DB, rewards, Options{Quiet: true}), env.DB
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	app, _ := newTestApp(t)

	var body dto.HealthResponse
	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/health", nil, "", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.DB)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestLegalPages(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/legal/privacy", "/api/legal/terms"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		b, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(b), "CivicUX")
	}
}

func TestAuthFlow(t *testing.T) {
	app, _ := newTestApp(t)

	var reg dto.AuthResponse
	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/register",
		dto.RegisterRequest{Name: "Maria", Email: "maria@email.com", Password: "senha123"}, "", &reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, reg.Token)

	var errBody dto.ErrorResponse
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/register",
		dto.RegisterRequest{Name: "Maria", Email: "maria@email.com", Password: "senha123"}, "", &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email já cadastrado", errBody.Message)

	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Email: "maria@email.com", Password: "errada"}, "", &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Email ou senha inválidos", errBody.Message)

	var refreshed dto.AuthResponse
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/refresh",
		dto.RefreshRequest{RefreshToken: reg.RefreshToken}, "", &refreshed)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/logout",
		dto.LogoutRequest{RefreshToken: refreshed.RefreshToken}, refreshed.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, app, http.MethodDelete, "/api/auth/account",
		dto.DeleteAccountRequest{Password: "senha123"}, refreshed.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Email: "maria@email.com", Password: "senha123"}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/reports"},
		{http.MethodPost, "/api/reports/analyze"},
		{http.MethodPost, "/api/propositions/vote"},
		{http.MethodPost, "/api/rewards/1/redeem"},
		{http.MethodGet, "/api/rewards/redemptions"},
		{http.MethodPost, "/api/upload"},
		{http.MethodDelete, "/api/auth/account"},
	}
	for _, tc := range cases {
		resp := testutil.DoJSON(t, app, tc.method, tc.path, map[string]string{}, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
	}

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/reports", map[string]string{}, "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReportLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	joao := testutil.CreateUser(t, db, "João", "joao@email.com")

	var created dto.CreateReportResponse
	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/reports", map[string]interface{}{
		"title":       "Buraco na Via Principal",
		"description": "Buraco enorme",
		"severity":    8,
		"department":  "Infraestrutura",
		"location":    map[string]float64{"lat": -23.56, "lng": -46.65},
		"address":     "Avenida Paulista",
	}, testutil.TokenFor(t, maria), &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, created.Report)
	assert.Equal(t, []string{"first-report"}, created.NewAchievements)

	reportPath := "/api/reports/" + created.ID.String()

	var vote dto.VoteResponse
	resp = testutil.DoJSON(t, app, http.MethodPost, reportPath+"/vote",
		dto.VoteReportRequest{Type: models.VoteValid}, testutil.TokenFor(t, joao), &vote)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, vote.Vote)
	assert.Equal(t, models.VoteValid, vote.Type)

	var errBody dto.ErrorResponse
	resp = testutil.DoJSON(t, app, http.MethodPost, reportPath+"/vote",
		dto.VoteReportRequest{Type: models.VoteFake}, testutil.TokenFor(t, joao), &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Você já votou nesta denúncia.", errBody.Message)

	var page dto.ReportPage
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/reports?page=1&limit=5&userId="+joao.ID.String(), nil, "", &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].UserVote)
	assert.Equal(t, models.VoteValid, *page.Items[0].UserVote)

	var report models.Report
	resp = testutil.DoJSON(t, app, http.MethodGet, reportPath, nil, "", &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, report.Votes, 1)

	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/reports/not-a-uuid", nil, "", &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ID inválido", errBody.Message)

	var profile dto.ProfileResponse
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/user/"+maria.ID.String(), nil, "", &profile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, services.ReportXP, profile.XP)
	assert.Equal(t, services.ReportCoins, profile.CiviCoins)
	assert.Equal(t, 250, profile.NextLevelXP)

	var ranking []dto.RankingEntry
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/ranking", nil, "", &ranking)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, ranking, 2)
	assert.Equal(t, maria.ID, ranking[0].ID)

	var feed []dto.ActivityItem
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/activity", nil, "", &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 1)
	assert.Equal(t, "REPORT", feed[0].Type)
	assert.Equal(t, "Maria", feed[0].User)
}

func TestReportCreate_Blocked(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")

	var errBody dto.ErrorResponse
	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/reports",
		dto.CreateReportRequest{Title: "que merda"}, testutil.TokenFor(t, maria), &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Seu texto contém linguagem inadequada.", errBody.Message)
}

func TestUpdateProfile_OnlyOwner(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	joao := testutil.CreateUser(t, db, "João", "joao@email.com")

	resp := testutil.DoJSON(t, app, http.MethodPut, "/api/user/"+maria.ID.String(),
		map[string]string{"name": "Hack"}, testutil.TokenFor(t, joao), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var updated dto.UpdateProfileResponse
	resp = testutil.DoJSON(t, app, http.MethodPut, "/api/user/"+maria.ID.String(),
		map[string]interface{}{"name": "Maria Silva", "interests": []string{"saude"}}, testutil.TokenFor(t, maria), &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Maria Silva", updated.User.Name)
	assert.Equal(t, []string{"saude"}, updated.User.Interests)
}

func TestAdminUpdateStatus(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	report := models.Report{Title: "Buraco", AuthorID: maria.ID}
	require.NoError(t, db.Create(&report).Error)
	path := "/api/admin/reports/" + report.ID.String() + "/status"
	body := dto.UpdateReportStatusRequest{Status: models.ReportStatusValidated}

	resp := testutil.DoJSON(t, app, http.MethodPut, path, body, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = testutil.DoJSON(t, app, http.MethodPut, path, body, testutil.TokenFor(t, maria), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader([]byte(`{"status":"validated"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", "admin-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Report
	require.NoError(t, db.First(&stored, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportStatusValidated, stored.Status)
}

func TestRewardsRoutes(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", maria.ID).Update("civi_coins", 600).Error)
	token := testutil.TokenFor(t, maria)

	var catalogue dto.RewardsResponse
	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/rewards", nil, "", &catalogue)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, catalogue.Categories)

	var redemption models.Redemption
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/rewards/1/redeem", nil, token, &redemption)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 500, redemption.Cost)

	var errBody dto.ErrorResponse
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/rewards/1/redeem", nil, token, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Saldo insuficiente", errBody.Message)

	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/rewards/missing/redeem", nil, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var list []models.Redemption
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/rewards/redemptions", nil, token, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)
}

func TestUpstreamFailures(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/propositions", nil, "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/propositions/abc", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var geo dto.GeocodeResponse
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/geocode/reverse?lat=-23.5613&lng=-46.6563", nil, "", &geo)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "-23.5613, -46.6563", geo.Address)

	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/geocode/reverse?lat=abc", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var analysis dto.ImageAnalysis
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/reports/analyze",
		dto.AnalyzeImageRequest{ImageURL: "https://img/1.jpg"}, testutil.TokenFor(t, maria), &analysis)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Erro na Análise de Imagem", analysis.Title)

	var errBody dto.ErrorResponse
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/mentor/chat",
		dto.MentorChatRequest{Message: "oi"}, "", &errBody)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, errBody.Message, "Desculpe")
}

func TestUpload_Validation(t *testing.T) {
	app, db := newTestApp(t)
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	token := testutil.TokenFor(t, maria)

	send := func(filename, contentType string) *http.Response {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("data"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusBadRequest, send("virus.exe", "application/octet-stream").StatusCode)
	// Valid file, but storage isn't configured in tests.
	assert.Equal(t, http.StatusInternalServerError, send("foto.png", "image/png").StatusCode)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/upload", map[string]string{}, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotFoundUsesErrorHandler(t *testing.T) {
	app, _ := newTestApp(t)

	var errBody dto.ErrorResponse
	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/nope", nil, "", &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, errBody.Error)
}
