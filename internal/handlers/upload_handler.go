package handlers

import (
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// UploadHandler covers the report-drafting helpers: photo upload and reverse
// geocoding of the capture location.
type UploadHandler struct {
	storageService   *services.StorageService
	geocodingService *services.GeocodingService
}

func NewUploadHandler(storageService *services.StorageService, geocodingService *services.GeocodingService) *UploadHandler {
	return &UploadHandler{storageService: storageService, geocodingService: geocodingService}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "No file uploaded")
	}
	contentType := fh.Header.Get("Content-Type")
	if _, err := services.ValidateImage(fh.Filename, contentType, fh.Size); err != nil {
		return respondError(c, "upload.image", err, "Failed to upload image")
	}

	f, err := fh.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "No file uploaded")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, services.MaxUploadSize+1))
	if err != nil {
		return respondError(c, "upload.image", err, "Failed to upload image")
	}

	imageURL, err := h.storageService.UploadImage(c.UserContext(), fh.Filename, contentType, data)
	if err != nil {
		return respondError(c, "upload.image", err, "Failed to upload to storage")
	}
	return c.JSON(dto.UploadResponse{ImageURL: imageURL})
}

// ReverseGeocode answers with the coordinates themselves when the lookup
// fails, so the report form always has an address.
func (h *UploadHandler) ReverseGeocode(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return fail(c, fiber.StatusBadRequest, "lat e lng são obrigatórios")
	}

	address, err := h.geocodingService.Reverse(c.UserContext(), lat, lng)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Warn("reverse geocoding failed", "action", "geocode.reverse", "error", err)
		address = services.FallbackAddress(lat, lng)
	}
	return c.JSON(dto.GeocodeResponse{Address: address})
}
