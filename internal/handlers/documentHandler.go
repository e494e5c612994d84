package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/intellifile/internal/adapter"
	"github.com/akolanti/intellifile/internal/adapter/utils"
	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

// PostIngestHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a PDF, DOC or DOCX via multipart/form-data and ingests it synchronously into both indexes.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The document file to upload"
// @Success      201  {object}  api.IngestResponse
// @Failure      400  {object}  api.ErrorResponse "Missing file, oversized upload or unsupported format"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /documents [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSizeBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
		return
	}

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		destinationFileWriter.Close()
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Write error")
		return
	}
	destinationFileWriter.Close()

	// the upload is copied into the document store by the pipeline
	defer func() {
		if err := os.Remove(tempFilePath); err != nil {
			logRH.Error("Error removing temp upload", "path", tempFilePath, "error", err)
		}
	}()

	record, err := ragService.IngestDocument(r.Context(), tempFilePath, fileMetadata.Filename)
	if err != nil {
		if errors.Is(err, docmodel.ErrUnsupportedFormat) {
			WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Unsupported document format")
			return
		}
		logRH.Error("ingestion failed", "filename", fileMetadata.Filename, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Ingestion failed")
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToIngestResponse(record))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document from both indexes and the file store. Deleting an unknown id succeeds.
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      204
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	documentId := utils.GetChiURLParam(r, "id")
	if documentId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document id is required")
		return
	}

	if err := ragService.DeleteDocument(r.Context(), documentId); err != nil {
		logRH.Error("delete failed", "documentId", documentId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDocumentHandler godoc
// @Summary      Get a document's metadata record
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	documentId := utils.GetChiURLParam(r, "id")
	record, err := ragService.GetDocument(r.Context(), documentId)
	if err != nil {
		if errors.Is(err, docmodel.ErrDocumentNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, documentId, "Document not found")
			return
		}
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Lookup failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(record))
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Tags         Documents
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {object}  api.ListDocumentsResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	limit := queryParamInt(r, "limit", config.DefaultTopK)
	offset := queryParamInt(r, "offset", 0)

	records, err := ragService.ListDocuments(r.Context(), limit, offset)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Listing failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToListDocumentsResponse(records, limit, offset))
}

// RegenerateMetadataHandler godoc
// @Summary      Regenerate AI metadata for a document
// @Description  Re-runs summary, keyword and classification generation from the stored original file.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /documents/{id}/regenerate [post]
func RegenerateMetadataHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	documentId := utils.GetChiURLParam(r, "id")
	record, err := ragService.RegenerateMetadata(r.Context(), documentId)
	if err != nil {
		if errors.Is(err, docmodel.ErrDocumentNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, documentId, "Document not found")
			return
		}
		logRH.Error("regeneration failed", "documentId", documentId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Regeneration failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(record))
}

// SimilarDocumentsHandler godoc
// @Summary      Find documents similar to a given one
// @Description  Ranks other documents by summary-vector similarity.
// @Tags         Documents
// @Produce      json
// @Param        id     path      string  true   "Document ID"
// @Param        top_k  query     int     false  "Maximum results"
// @Success      200    {object}  api.SearchResponse
// @Failure      404    {object}  api.ErrorResponse
// @Router       /documents/{id}/similar [get]
func SimilarDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	documentId := utils.GetChiURLParam(r, "id")
	topK := queryParamInt(r, "top_k", config.DefaultTopK)

	results, err := ragService.SimilarDocuments(r.Context(), documentId, topKOrDefault(topK))
	if err != nil {
		if errors.Is(err, docmodel.ErrDocumentNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, documentId, "Document not found")
			return
		}
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Similarity search failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(results))
}
