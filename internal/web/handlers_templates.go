package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleDownloadTemplate serves a blank workbook whose header row is
// detected as the requested schema.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	schema, err := importer.ParseSchema(chi.URLParam(r, "schema"))
	if err != nil {
		writeJSON(w, r, http.StatusNotFound, ErrorResponse{
			Error:   err.Error(),
			Message: "Unknown content type",
			Action:  "Pick one of the schemas listed by /api/schemas",
			Code:    "IMP002",
		})
		return
	}

	// Buffer first so a failed render can still report an error status.
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf, schema); err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.TemplateFileName(schema)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}
