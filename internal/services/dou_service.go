package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/dto"
)

const (
	douHighlightsPath = "/servicos/diario-oficial-da-uniao/destaques-do-diario-oficial-da-uniao"
	douPortlet        = "com_liferay_asset_publisher_web_portlet_AssetPublisherPortlet_INSTANCE_mhF1RLPnJWPh"
	douPageSize       = 20
	douSummaryMaxLen  = 5000
)

const legalAssistantPrompt = "Você é um assistente jurídico útil. Resuma a seguinte matéria do Diário Oficial da União em português claro e simples para um cidadão comum. Destaque o impacto prático."

var douCurPattern = regexp.MustCompile(`_cur=(\d+)`)

type douCacheEntry struct {
	page    *dto.DOUPage
	expires time.Time
}

// DOUService scrapes the official gazette highlights and summarises entries.
type DOUService struct {
	cfg    *config.Config
	llm    *LLMClient
	client *http.Client
	now    func() time.Time

	mu    sync.Mutex
	cache map[int]douCacheEntry
}

func NewDOUService(cfg *config.Config, llm *LLMClient) *DOUService {
	return &DOUService{
		cfg:    cfg,
		llm:    llm,
		client: &http.Client{Timeout: 20 * time.Second},
		now:    time.Now,
		cache:  make(map[int]douCacheEntry),
	}
}

func (s *DOUService) baseURL() string {
	return strings.TrimRight(s.cfg.DOUBaseURL, "/")
}

// Highlights returns one page of the DOU highlights portlet.
func (s *DOUService) Highlights(ctx context.Context, page int) (*dto.DOUPage, error) {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	if e, ok := s.cache[page]; ok && s.now().Before(e.expires) {
		s.mu.Unlock()
		return e.page, nil
	}
	s.mu.Unlock()

	q := url.Values{}
	q.Set("p_p_id", douPortlet)
	q.Set("p_p_lifecycle", "0")
	q.Set("p_p_state", "normal")
	q.Set("p_p_mode", "view")
	q.Set("_"+douPortlet+"_delta", strconv.Itoa(douPageSize))
	q.Set("p_r_p_resetCur", "false")
	q.Set("_"+douPortlet+"_cur", strconv.Itoa(page))

	doc, err := s.fetch(ctx, s.baseURL()+douHighlightsPath+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	result := s.parseHighlights(doc, page)

	if s.cfg.DOUCacheTTL > 0 {
		s.mu.Lock()
		s.cache[page] = douCacheEntry{page: result, expires: s.now().Add(s.cfg.DOUCacheTTL)}
		s.mu.Unlock()
	}
	return result, nil
}

func (s *DOUService) parseHighlights(doc *goquery.Document, page int) *dto.DOUPage {
	items := []dto.DOUHighlight{}
	position := map[string]int{}

	doc.Find(".lista-de-dou .dou").Each(func(i int, el *goquery.Selection) {
		titleEl := el.Find(".title").First()
		title := strings.TrimSpace(titleEl.Text())
		link, _ := titleEl.Attr("href")
		if title == "" || link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = s.baseURL() + link
		}
		date := strings.TrimSpace(el.Find(".date").Text())
		if date == "" {
			date = s.now().Format("02/01/2006")
		}

		item := dto.DOUHighlight{
			ID:      i + (page-1)*douPageSize,
			Tag:     strings.TrimSpace(el.Find(".tag").Text()),
			Title:   title,
			Link:    link,
			Summary: strings.TrimSpace(el.Find(".summary").Text()),
			Date:    date,
		}
		// Duplicate titles keep their first position with the latest entry.
		if pos, seen := position[title]; seen {
			items[pos] = item
			return
		}
		position[title] = len(items)
		items = append(items, item)
	})

	totalPages := page
	if href, ok := doc.Find(`[class*="pagination"] a`).Last().Attr("href"); ok {
		if m := douCurPattern.FindStringSubmatch(href); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				totalPages = n
			}
		}
	}

	result := &dto.DOUPage{Items: items, TotalPages: totalPages}
	if page < totalPages {
		next := page + 1
		result.NextPage = &next
	}
	return result
}

// Summarize explains an entry. When link is set the article text is fetched
// from the portal and used in place of text.
func (s *DOUService) Summarize(ctx context.Context, req *dto.SummarizeDOURequest) (string, error) {
	content := strings.TrimSpace(req.Text)
	if req.URL != "" {
		if err := s.checkLink(req.URL); err != nil {
			return "", err
		}
		doc, err := s.fetch(ctx, req.URL)
		if err != nil {
			return "", err
		}
		content = strings.TrimSpace(doc.Find(".journal-content-article").Text())
		if content == "" {
			content = strings.TrimSpace(doc.Find("body").Text())
		}
		content = truncateRunes(content, douSummaryMaxLen)
	}
	if content == "" {
		return "", invalid("Texto ou URL é obrigatório")
	}

	summary, err := s.llm.Complete(ctx, []llmMessage{
		{Role: "system", Content: legalAssistantPrompt},
		{Role: "user", Content: content},
	}, 0.5, 500)
	if err != nil {
		return "", fmt.Errorf("failed to summarize DOU entry: %w", err)
	}
	if summary == "" {
		return emptySummary, nil
	}
	return summary, nil
}

// checkLink only admits pages on the DOU portal host.
func (s *DOUService) checkLink(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid("URL inválida")
	}
	base, err := url.Parse(s.baseURL())
	if err != nil || !strings.EqualFold(u.Host, base.Host) {
		return invalid("Apenas links do Diário Oficial são aceitos")
	}
	return nil
}

func (s *DOUService) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "CivicUX/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: dou status %d", ErrUpstream, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dou page: %v", ErrUpstream, err)
	}
	return doc, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
