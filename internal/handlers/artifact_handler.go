package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/services"
)

type ArtifactHandler struct {
	registry services.ArtifactRegistry
}

func NewArtifactHandler(registry services.ArtifactRegistry) *ArtifactHandler {
	return &ArtifactHandler{registry: registry}
}

// HandleUpload handles POST /sessions/:id/artifacts/upload
func (h *ArtifactHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Expected a multipart 'file' field",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	artifact, err := h.registry.AddFile(
		c.UserContext(),
		c.Params("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
		c.FormValue("description"),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.ArtifactUploadResponse{Artifact: *artifact})
}

// HandleLink handles POST /sessions/:id/artifacts/link
func (h *ArtifactHandler) HandleLink(c *fiber.Ctx) error {
	var req models.ArtifactLinkRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	artifact, err := h.registry.AddLink(c.UserContext(), c.Params("id"), req.URL, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.ArtifactUploadResponse{Artifact: *artifact})
}

// HandleList handles GET /sessions/:id/artifacts
func (h *ArtifactHandler) HandleList(c *fiber.Ctx) error {
	artifacts, err := h.registry.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ArtifactListResponse{Artifacts: artifacts})
}

// HandleDownload handles GET /sessions/:id/artifacts/:artifactID
func (h *ArtifactHandler) HandleDownload(c *fiber.Ctx) error {
	artifact, data, err := h.registry.GetFileBytes(c.UserContext(), c.Params("id"), c.Params("artifactID"))
	if err != nil {
		return respondError(c, err)
	}

	contentType := artifact.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+artifact.Filename+`"`)
	return c.Send(data)
}
