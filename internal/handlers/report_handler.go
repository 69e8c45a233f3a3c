package handlers

import (
	"io"

	"github.com/civicux/civicux-api/internal/authctx"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService   *services.ReportService
	analysisService *services.AnalysisService
}

func NewReportHandler(reportService *services.ReportService, analysisService *services.AnalysisService) *ReportHandler {
	return &ReportHandler{reportService: reportService, analysisService: analysisService}
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	page, err := h.reportService.List(authctx.ViewerID(c), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, "report.list", err, "Failed to fetch reports")
	}
	return c.JSON(page)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	report, err := h.reportService.Get(id)
	if err != nil {
		return respondError(c, "report.get", err, "Failed to fetch report")
	}
	return c.JSON(report)
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.reportService.Create(userID, &req)
	if err != nil {
		return respondError(c, "report.create", err, "Failed to create report")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ReportHandler) Vote(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	var req dto.VoteReportRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.reportService.Vote(userID, reportID, &req)
	if err != nil {
		return respondError(c, "report.vote", err, "Failed to vote")
	}
	return c.JSON(resp)
}

// Analyze accepts either a multipart "image" file or a JSON {imageUrl}.
func (h *ReportHandler) Analyze(c *fiber.Ctx) error {
	if fh, err := c.FormFile("image"); err == nil {
		if _, err := services.ValidateImage(fh.Filename, fh.Header.Get("Content-Type"), fh.Size); err != nil {
			return respondError(c, "report.analyze", err, "Failed to analyze image")
		}
		f, err := fh.Open()
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Não foi possível ler a imagem")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, services.MaxUploadSize+1))
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Não foi possível ler a imagem")
		}
		return c.JSON(h.analysisService.AnalyzeBytes(c.UserContext(), data, fh.Header.Get("Content-Type")))
	}

	var req dto.AnalyzeImageRequest
	if err := c.BodyParser(&req); err != nil || req.ImageURL == "" {
		return fail(c, fiber.StatusBadRequest, "Envie uma imagem ou imageUrl")
	}
	return c.JSON(h.analysisService.Analyze(c.UserContext(), req.ImageURL))
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	report, err := h.reportService.UpdateStatus(id, req.Status)
	if err != nil {
		return respondError(c, "report.update_status", err, "Failed to update report")
	}
	return c.JSON(report)
}
