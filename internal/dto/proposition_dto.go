package dto

import (
	"time"

	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
)

// Proposition mirrors the Câmara open-data fields the SPA renders.
type Proposition struct {
	ID        int     `json:"id"`
	URI       string  `json:"uri"`
	SiglaTipo string  `json:"siglaTipo"`
	CodTipo   int     `json:"codTipo"`
	Numero    int     `json:"numero"`
	Ano       int     `json:"ano"`
	Ementa    string  `json:"ementa"`
	Author    string  `json:"author,omitempty"`
	UserVote  *string `json:"userVote"`
}

type PropositionDetail struct {
	Proposition
	DataApresentacao string             `json:"dataApresentacao,omitempty"`
	EmentaDetalhada  string             `json:"ementaDetalhada,omitempty"`
	Keywords         string             `json:"keywords,omitempty"`
	URLInteiroTeor   string             `json:"urlInteiroTeor,omitempty"`
	Status           *PropositionStatus `json:"statusProposicao,omitempty"`
	Tally            VoteTally          `json:"tally"`
}

type PropositionStatus struct {
	DataHora          string `json:"dataHora"`
	SiglaOrgao        string `json:"siglaOrgao"`
	DescricaoSituacao string `json:"descricaoSituacao"`
	DescricaoTramite  string `json:"descricaoTramitacao"`
	Despacho          string `json:"despacho"`
}

type VoteTally struct {
	Approve int64 `json:"approve"`
	Reject  int64 `json:"reject"`
}

type VotePropositionRequest struct {
	// PropositionID arrives as a number from the SPA and as a string from
	// older clients.
	PropositionID FlexibleID `json:"propositionId"`
	VoteType      string     `json:"voteType"`
	Comment       string     `json:"comment"`
}

type PropositionVoteResponse struct {
	*models.PropositionVote
	ActionResult
}

type SummarizePropositionRequest struct {
	Text   string     `json:"text"`
	Type   string     `json:"type"`
	Number FlexibleID `json:"number"`
	Year   FlexibleID `json:"year"`
	Author string     `json:"author"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type ActivityItem struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	User        string    `json:"user"`
	Icon        string    `json:"icon"`
}
