package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/civicux/civicux-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const camaraListJSON = `{"dados":[
	{"id":2400001,"uri":"u1","siglaTipo":"PL","codTipo":139,"numero":10,"ano":2024,"ementa":"Dispõe sobre ciclovias."},
	{"id":2400002,"uri":"u2","siglaTipo":"PL","codTipo":139,"numero":11,"ano":2024,"ementa":"Altera o código de trânsito."}
],"links":[]}`

const camaraDetailJSON = `{"dados":{"id":2400001,"siglaTipo":"PL","numero":10,"ano":2024,"ementa":"Dispõe sobre ciclovias.",
	"dataApresentacao":"2024-03-01T10:00","statusProposicao":{"descricaoSituacao":"Aguardando Parecer","siglaOrgao":"CVT"}}}`

// fakeCamara serves the proposition endpoints used by CamaraClient.
func fakeCamara(t *testing.T, authorCalls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/proposicoes":
			q := r.URL.Query()
			if q.Get("siglaTipo") != "PL" || q.Get("ano") != "2024" || q.Get("ordem") != "DESC" || q.Get("itens") != "2" {
				http.Error(w, "bad query", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(camaraListJSON))
		case r.URL.Path == "/proposicoes/2400001/autores":
			atomic.AddInt32(authorCalls, 1)
			_, _ = w.Write([]byte(`{"dados":[{"nome":"Dep. Fulana","siglaPartido":"PSB","siglaUf":"SP"},{"nome":"Outro"}]}`))
		case r.URL.Path == "/proposicoes/2400002/autores":
			atomic.AddInt32(authorCalls, 1)
			_, _ = w.Write([]byte(`{"dados":[{"nome":"Poder Executivo"}]}`))
		case r.URL.Path == "/proposicoes/2400001":
			_, _ = w.Write([]byte(camaraDetailJSON))
		case strings.HasSuffix(r.URL.Path, "/autores"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newPropositionService(db *gorm.DB, cfg *config.Config) *PropositionService {
	return NewPropositionService(db, cfg, NewCamaraClient(cfg.CamaraAPIURL), NewLLMClient(cfg),
		NewGamificationService(db), NewModerationService())
}

func TestPropositionList(t *testing.T) {
	var authorCalls int32
	camara := fakeCamara(t, &authorCalls)
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.CamaraAPIURL = camara.URL
	svc := newPropositionService(db, cfg)

	viewer := testutil.CreateUser(t, db, "Maria", "maria@email.com")
	require.NoError(t, db.Create(&models.PropositionVote{UserID: viewer.ID, PropositionID: "2400002", VoteType: models.PropositionReject}).Error)

	props, err := svc.List(context.Background(), viewer.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&authorCalls))

	assert.Equal(t, "Dep. Fulana - PSB/SP", props[0].Author)
	assert.Nil(t, props[0].UserVote)
	assert.Equal(t, "Poder Executivo", props[1].Author)
	require.NotNil(t, props[1].UserVote)
	assert.Equal(t, models.PropositionReject, *props[1].UserVote)
}

func TestPropositionList_UpstreamDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPropositionService(db, testutil.GetTestConfig())

	_, err := svc.List(context.Background(), uuid.Nil, 1, 5)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestPropositionGet_Tally(t *testing.T) {
	var authorCalls int32
	camara := fakeCamara(t, &authorCalls)
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.CamaraAPIURL = camara.URL
	svc := newPropositionService(db, cfg)

	a := testutil.CreateUser(t, db, "A", "a@email.com")
	b := testutil.CreateUser(t, db, "B", "b@email.com")
	c := testutil.CreateUser(t, db, "C", "c@email.com")
	for _, v := range []models.PropositionVote{
		{UserID: a.ID, PropositionID: "2400001", VoteType: models.PropositionApprove},
		{UserID: b.ID, PropositionID: "2400001", VoteType: models.PropositionApprove},
		{UserID: c.ID, PropositionID: "2400001", VoteType: models.PropositionReject},
		{UserID: a.ID, PropositionID: "999", VoteType: models.PropositionReject},
	} {
		require.NoError(t, db.Create(&v).Error)
	}

	detail, err := svc.Get(context.Background(), c.ID, 2400001)
	require.NoError(t, err)
	assert.Equal(t, "Dep. Fulana - PSB/SP", detail.Author)
	assert.Equal(t, int64(2), detail.Tally.Approve)
	assert.Equal(t, int64(1), detail.Tally.Reject)
	require.NotNil(t, detail.Status)
	assert.Equal(t, "Aguardando Parecer", detail.Status.DescricaoSituacao)
	require.NotNil(t, detail.UserVote)
	assert.Equal(t, models.PropositionReject, *detail.UserVote)

	_, err = svc.Get(context.Background(), uuid.Nil, 1)
	assert.ErrorIs(t, err, ErrPropositionNotFound)
}

func TestPropositionVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, NewGamificationService(db).SeedAchievements())
	svc := newPropositionService(db, testutil.GetTestConfig())
	user := testutil.CreateUser(t, db, "Maria", "maria@email.com")

	resp, err := svc.Vote(user.ID, &dto.VotePropositionRequest{PropositionID: "2400001", VoteType: models.PropositionApprove})
	require.NoError(t, err)
	assert.Equal(t, "2400001", resp.PropositionID)
	assert.Equal(t, []string{"first-prop-vote"}, resp.NewAchievements)

	_, err = svc.Vote(user.ID, &dto.VotePropositionRequest{PropositionID: "2400001", VoteType: models.PropositionReject})
	assert.ErrorIs(t, err, ErrAlreadyVotedProposition)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.Equal(t, PropositionVoteXP, got.XP)
	assert.Equal(t, PropositionVoteCoins, got.CiviCoins)
	assert.Equal(t, 1, got.VotesCast)
}

func TestPropositionVote_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPropositionService(db, testutil.GetTestConfig())
	user := testutil.CreateUser(t, db, "Maria", "maria@email.com")

	_, err := svc.Vote(user.ID, &dto.VotePropositionRequest{VoteType: models.PropositionApprove})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Vote(user.ID, &dto.VotePropositionRequest{PropositionID: "1", VoteType: "MAYBE"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Vote(user.ID, &dto.VotePropositionRequest{PropositionID: "1", VoteType: models.PropositionApprove, Comment: "vai se foder"})
	assert.ErrorIs(t, err, ErrContentBlocked)
}

func TestPropositionSummarize(t *testing.T) {
	groq := newFakeGroq(t, "**O que é**: um projeto.")
	db := testutil.SetupTestDB(t)
	svc := newPropositionService(db, groq.config())

	summary, err := svc.Summarize(context.Background(), &dto.SummarizePropositionRequest{
		Text: "Dispõe sobre ciclovias.", Type: "PL", Number: "10", Year: "2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "**O que é**: um projeto.", summary)

	messages := groq.last(t)["messages"].([]interface{})
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})["content"].(string)
	assert.Contains(t, user, "PL 10/2024")
	assert.Contains(t, user, "Autor: Não informado")

	_, err = svc.Summarize(context.Background(), &dto.SummarizePropositionRequest{Text: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPropositionSummarize_EmptyReply(t *testing.T) {
	groq := newFakeGroq(t, "")
	db := testutil.SetupTestDB(t)
	svc := newPropositionService(db, groq.config())

	summary, err := svc.Summarize(context.Background(), &dto.SummarizePropositionRequest{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, emptySummary, summary)
}
