package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/civicux/civicux-api/internal/config"
)

const MaxUploadSize = 5 * 1024 * 1024

var ErrStorageNotConfigured = errors.New("storage not configured")

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// StorageService uploads report photos to a Supabase Storage bucket through
// its REST API.
type StorageService struct {
	cfg    *config.Config
	client *http.Client
	now    func() time.Time
}

func NewStorageService(cfg *config.Config) *StorageService {
	return &StorageService{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

// ValidateImage checks size, extension and declared MIME type. It returns the
// normalised extension.
func ValidateImage(filename, contentType string, size int64) (string, error) {
	if size > MaxUploadSize {
		return "", invalid("Imagem muito grande: máximo de 5 MB")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return "", invalid("Formato não suportado: use jpeg, jpg, png ou webp")
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if mime != want {
		return "", invalid("Tipo de arquivo não corresponde a uma imagem suportada")
	}
	return ext, nil
}

// UploadImage stores the file under reports/ and returns its public URL.
func (s *StorageService) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext, err := ValidateImage(filename, contentType, int64(len(data)))
	if err != nil {
		return "", err
	}
	if s.cfg.SupabaseURL == "" || s.cfg.SupabaseServiceKey == "" {
		return "", ErrStorageNotConfigured
	}

	objectPath := fmt.Sprintf("reports/%d-%d%s", s.now().UnixMilli(), rand.IntN(1_000_000_000), ext)
	base := strings.TrimRight(s.cfg.SupabaseURL, "/")
	target := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, s.cfg.SupabaseBucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.SupabaseServiceKey)
	req.Header.Set("apikey", s.cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", allowedImageTypes[ext])
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: storage status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, s.cfg.SupabaseBucket, objectPath), nil
}
