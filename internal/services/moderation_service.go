package services

import (
	"regexp"
	"strings"
)

// BannedWords is matched on word boundaries, case-insensitively.
var BannedWords = []string{
	// pt-BR
	"porra", "caralho", "merda", "bosta", "puta", "puto", "putaria",
	"foda", "foder", "fodido", "cu", "arrombado", "buceta", "viado",
	"vagabundo", "vagabunda", "otario", "otário", "babaca", "idiota",
	"imbecil", "retardado", "corno", "desgraçado", "filho da puta",
	"golpe do pix", "pirâmide financeira",
	// en
	"fuck", "fucking", "shit", "bullshit", "asshole", "bitch", "cunt",
	"nigger", "faggot", "retard",
	"porn", "porno", "nude", "nudes",
	"scam", "phishing", "malware",
}

var rejectionMessages = map[string]string{
	"inappropriate_language":   "Seu texto contém linguagem inadequada.",
	"url_not_allowed":          "Links não são permitidos.",
	"contact_info_not_allowed": "Não é permitido compartilhar dados de contato.",
	"spam_detected":            "Seu texto parece ser spam.",
	"excessive_caps":           "Evite usar letras maiúsculas em excesso.",
}

// ModerationService screens user text before it is stored.
type ModerationService struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
}

func NewModerationService() *ModerationService {
	ms := &ModerationService{
		bannedWordRegexps: make([]*regexp.Regexp, 0, len(BannedWords)),
	}
	for _, word := range BannedWords {
		// \b is ASCII-only in RE2, so accented letters need explicit edges.
		pattern := `(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(word) + `($|[^\p{L}\p{N}])`
		if re, err := regexp.Compile(pattern); err == nil {
			ms.bannedWordRegexps = append(ms.bannedWordRegexps, re)
		}
	}

	ms.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	ms.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// Brazilian mobile and landline numbers, with or without DDD and country code.
	ms.phonePattern = regexp.MustCompile(`(\+?55\s?)?\(?\d{2}\)?\s?9?\d{4}[-.\s]?\d{4}\b`)
	ms.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	ms.allCapsPattern = regexp.MustCompile(`\p{Lu}{5,}`)
	return ms
}

// FilterContent runs the full filter and reports the first reason it fails.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}
	if ms.ContainsProfanity(text) {
		return false, "inappropriate_language"
	}
	if ms.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if ms.emailPattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	if len(ms.allCapsPattern.FindAllString(text, -1)) > 2 {
		return false, "excessive_caps"
	}
	return true, ""
}

func (ms *ModerationService) ContainsProfanity(text string) bool {
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	if msg, ok := rejectionMessages[reason]; ok {
		return msg
	}
	return "Seu texto não atende às diretrizes da comunidade."
}

// CheckComment applies the full filter to a vote comment.
func (ms *ModerationService) CheckComment(text string) error {
	if ok, reason := ms.FilterContent(text); !ok {
		return &ContentError{Reason: reason, Msg: ms.GetRejectionMessage(reason)}
	}
	return nil
}

// CheckProfanity only rejects offensive language; used for report text.
func (ms *ModerationService) CheckProfanity(texts ...string) error {
	for _, t := range texts {
		if ms.ContainsProfanity(t) {
			return &ContentError{Reason: "inappropriate_language", Msg: ms.GetRejectionMessage("inappropriate_language")}
		}
	}
	return nil
}
