package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qres429/chatdoc-pro/internal/logger"
	"github.com/qres429/chatdoc-pro/internal/models"
	"github.com/qres429/chatdoc-pro/internal/store"
)

// allowedFileTypes are the upload extensions accepted by the backend.
var allowedFileTypes = map[string]bool{
	"pdf":  true,
	"docx": true,
	"doc":  true,
	"txt":  true,
}

type DocumentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	FileType  string    `json:"fileType"`
	CreatedAt time.Time `json:"createdAt"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int64              `json:"total"`
}

func convertToDocumentResponse(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Name:      doc.Name,
		FileType:  doc.FileType,
		CreatedAt: doc.CreatedAt,
	}
}

// ListDocuments returns one page of the user's documents.
func (h *handler) ListDocuments(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	docs, total, err := h.documents.ListByUser(userID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	response := make([]DocumentResponse, len(docs))
	for i := range docs {
		response[i] = convertToDocumentResponse(&docs[i])
	}

	c.JSON(http.StatusOK, DocumentListResponse{Documents: response, Total: total})
}

// UploadDocument stores the uploaded file on disk, extracts its text and
// creates the document row.
func (h *handler) UploadDocument(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	parts := strings.Split(fileHeader.Filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	if len(parts) < 2 || !allowedFileTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	path, err := h.files.Save(ext, bytes.NewReader(content))
	if err != nil {
		logger.Log.Errorf("Failed to store upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	doc := models.Document{
		UserID:   userID,
		Name:     fileHeader.Filename,
		FileType: ext,
		FilePath: path,
		Content:  extractText(ext, fileHeader.Filename, content),
	}

	if err := h.documents.Create(&doc); err != nil {
		logger.Log.Errorf("Failed to create document: %v", err)
		if rmErr := h.files.Remove(path); rmErr != nil {
			logger.Log.Warnf("Failed to remove orphaned upload %s: %v", path, rmErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	c.JSON(http.StatusCreated, convertToDocumentResponse(&doc))
}

// GetDocument returns a single document owned by the user.
func (h *handler) GetDocument(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	doc, err := h.documents.Get(userID, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document"})
		return
	}

	c.JSON(http.StatusOK, convertToDocumentResponse(doc))
}

// DeleteDocument removes the stored file and the document row.
func (h *handler) DeleteDocument(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	doc, err := h.documents.Get(userID, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document"})
		return
	}

	if doc.FilePath != "" {
		if err := h.files.Remove(doc.FilePath); err != nil {
			logger.Log.Warnf("Failed to remove file %s: %v", doc.FilePath, err)
		}
	}

	if err := h.documents.Delete(userID, docID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Document deleted"})
}

// extractText pulls the searchable text out of an upload. Plain text is
// decoded as-is; PDF and Word parsing is stubbed to a placeholder line.
func extractText(ext, filename string, content []byte) string {
	switch ext {
	case "txt":
		return string(content)
	case "pdf":
		return fmt.Sprintf("[PDF document: %s]", filename)
	case "docx", "doc":
		return fmt.Sprintf("[Word document: %s]", filename)
	default:
		return ""
	}
}
