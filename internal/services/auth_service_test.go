package services

import (
	"testing"

	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/civicux/civicux-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t)
	return NewAuthService(env.DB, env.Config), env
}

func TestRegister(t *testing.T) {
	svc, env := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Name: " Maria Silva ", Email: "Maria@Email.com", Password: "senha123"})
	require.NoError(t, err)

	assert.Equal(t, "maria@email.com", resp.User.Email)
	assert.Equal(t, "Maria Silva", resp.User.Name)
	assert.Equal(t, 1, resp.User.Level)
	assert.Equal(t, 100, resp.NextLevelXP)
	assert.Contains(t, resp.User.Avatar, "ui-avatars.com")
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	var tokens int64
	env.DB.Model(&models.RefreshToken{}).Where("user_id = ?", resp.User.ID).Count(&tokens)
	assert.Equal(t, int64(1), tokens)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := []dto.RegisterRequest{
		{Name: "Maria", Email: "", Password: "senha123"},
		{Name: "  ", Email: "maria@email.com", Password: "senha123"},
		{Name: "Maria", Email: "maria@email.com", Password: "123"},
	}
	for _, req := range cases {
		_, err := svc.Register(&req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, env := newAuthService(t)
	testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")

	_, err := svc.Register(&dto.RegisterRequest{Name: "Outra", Email: "MARIA@email.com", Password: "senha123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, env := newAuthService(t)
	testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")

	resp, err := svc.Login(&dto.LoginRequest{Email: "maria@email.com", Password: "senha123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(&dto.LoginRequest{Email: "maria@email.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "ninguem@email.com", Password: "senha123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotatesOnce(t *testing.T) {
	svc, env := newAuthService(t)
	testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")

	first, err := svc.Login(&dto.LoginRequest{Email: "maria@email.com", Password: "senha123"})
	require.NoError(t, err)

	second, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "a spent refresh token must not be reusable")

	_, err = svc.Refresh(&dto.RefreshRequest{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, env := newAuthService(t)
	testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")

	resp, err := svc.Login(&dto.LoginRequest{Email: "maria@email.com", Password: "senha123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	svc, env := newAuthService(t)
	db := env.DB
	maria := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	joao := testutil.CreateUser(t, db, "João", "joao@email.com")

	own := models.Report{Title: "Buraco", AuthorID: maria.ID}
	other := models.Report{Title: "Lixo", AuthorID: joao.ID}
	require.NoError(t, db.Create(&own).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: joao.ID, ReportID: own.ID, Type: models.VoteValid}).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: maria.ID, ReportID: other.ID, Type: models.VoteFake}).Error)
	require.NoError(t, db.Create(&models.PropositionVote{UserID: maria.ID, PropositionID: "42", VoteType: models.PropositionReject}).Error)
	require.NoError(t, db.Create(&models.Redemption{UserID: maria.ID, RewardID: "1", Cost: 10, VoucherCode: "CIVI-TEST"}).Error)

	assert.ErrorIs(t, svc.DeleteAccount(maria.ID, ""), ErrInvalidInput)
	assert.ErrorIs(t, svc.DeleteAccount(maria.ID, "errada"), ErrInvalidCredentials)

	require.NoError(t, svc.DeleteAccount(maria.ID, "senha123"))

	count := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		db.Model(model).Where(query, args...).Count(&n)
		return n
	}
	assert.Zero(t, count(&models.User{}, "id = ?", maria.ID))
	assert.Zero(t, count(&models.Report{}, "author_id = ?", maria.ID))
	assert.Zero(t, count(&models.Vote{}, "report_id = ?", own.ID), "votes on deleted reports go too")
	assert.Zero(t, count(&models.Vote{}, "user_id = ?", maria.ID))
	assert.Zero(t, count(&models.PropositionVote{}, "user_id = ?", maria.ID))
	assert.Zero(t, count(&models.Redemption{}, "user_id = ?", maria.ID))

	assert.Equal(t, int64(1), count(&models.Report{}, "id = ?", other.ID))
	assert.Equal(t, int64(1), count(&models.User{}, "id = ?", joao.ID))

	assert.ErrorIs(t, svc.DeleteAccount(maria.ID, "senha123"), ErrUserNotFound)
}
