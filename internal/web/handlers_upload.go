package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/courseimport/internal/core"
	"github.com/JonMunkholm/courseimport/internal/logging"
	"github.com/JonMunkholm/courseimport/internal/web/templates"
	"github.com/go-playground/validator/v10"
)

// formOverhead is the body allowance on top of the file size limit for
// multipart boundaries and the other form fields.
const formOverhead = 1 << 20

var validate = validator.New()

// uploadForm is the decoded multipart request shared by preview and import.
type uploadForm struct {
	FileName string `validate:"required,max=255"`
	DayID    string `validate:"omitempty,max=64,printascii"`
}

// readUpload decodes the multipart form. The returned cleanup closes the
// file and removes any temporary files the form spilled to disk.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.ImportRequest, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+formOverhead)

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return core.ImportRequest{}, nil, core.ErrNoFile
		}
		return core.ImportRequest{}, nil, formError(err)
	}

	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.FromContext(r.Context()).Warn("remove multipart temp files", "error", err)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		cleanup()
		return core.ImportRequest{}, nil, formError(err)
	}

	form := uploadForm{
		FileName: header.Filename,
		DayID:    strings.TrimSpace(r.FormValue("dayId")),
	}
	if err := validate.Struct(form); err != nil {
		file.Close()
		cleanup()
		return core.ImportRequest{}, nil, err
	}

	req := core.ImportRequest{
		FileName: form.FileName,
		Reader:   file,
		DayID:    form.DayID,
	}
	return req, func() {
		file.Close()
		cleanup()
	}, nil
}

// handlePreview parses an upload and reports what an import would store.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, cleanup, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer cleanup()

	preview, err := s.service.Preview(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, preview)
}

// handleImport parses an upload and stores its records under a new upload id.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, cleanup, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer cleanup()

	result, err := s.service.Import(withClient(r), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		err := templates.ImportSummary(result.Schema.String(), result.UploadID, result.Inserted, result.Dropped).Render(r.Context(), w)
		if err != nil {
			logging.FromContext(r.Context()).Error("render import summary", "error", err)
		}
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}
