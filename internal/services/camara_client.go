package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/civicux/civicux-api/internal/dto"
)

// CamaraClient reads the Câmara dos Deputados open-data API.
type CamaraClient struct {
	baseURL string
	client  *http.Client
}

type camaraAuthor struct {
	Nome         string `json:"nome"`
	SiglaPartido string `json:"siglaPartido"`
	SiglaUF      string `json:"siglaUf"`
}

func NewCamaraClient(baseURL string) *CamaraClient {
	return &CamaraClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *CamaraClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrPropositionNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: camara status %d", ErrUpstream, resp.StatusCode)
	}

	envelope := struct {
		Dados interface{} `json:"dados"`
	}{Dados: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode camara response: %v", ErrUpstream, err)
	}
	return nil
}

// ListBills returns one page of PL propositions for the year, newest first.
func (c *CamaraClient) ListBills(ctx context.Context, year, page, limit int) ([]dto.Proposition, error) {
	q := url.Values{}
	q.Set("siglaTipo", "PL")
	q.Set("ano", strconv.Itoa(year))
	q.Set("ordem", "DESC")
	q.Set("ordenarPor", "id")
	q.Set("pagina", strconv.Itoa(page))
	q.Set("itens", strconv.Itoa(limit))

	props := []dto.Proposition{}
	if err := c.get(ctx, "/proposicoes", q, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (c *CamaraClient) Get(ctx context.Context, id int) (*dto.PropositionDetail, error) {
	var detail dto.PropositionDetail
	if err := c.get(ctx, "/proposicoes/"+strconv.Itoa(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Author formats the first listed author as "Nome - PARTIDO/UF", or just the
// name when the author has no party.
func (c *CamaraClient) Author(ctx context.Context, id int) (string, error) {
	var authors []camaraAuthor
	if err := c.get(ctx, "/proposicoes/"+strconv.Itoa(id)+"/autores", nil, &authors); err != nil {
		return "", err
	}
	if len(authors) == 0 {
		return "", nil
	}
	first := authors[0]
	if first.SiglaPartido == "" {
		return first.Nome, nil
	}
	return fmt.Sprintf("%s - %s/%s", first.Nome, first.SiglaPartido, first.SiglaUF), nil
}
