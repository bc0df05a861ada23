package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-kiwimark"
	"github.com/alnah/go-kiwimark/internal/assets"
)

// convertResponse is the JSON body returned when the client asks for JSON.
type convertResponse struct {
	HTML     string   `json:"html"`
	Title    string   `json:"title,omitempty"`
	OrgMode  bool     `json:"org_mode"`
	Warnings []string `json:"warnings,omitempty"`
}

// handleConvert converts the request body.
//
// Query parameters:
//   - org_mode: auto, on, off
//   - escape_html: true, false
//   - standalone: wrap the fragment in a full document
//   - title: page title, implies standalone
//   - style: stylesheet name, implies standalone
//   - base_url: resolve relative links against this URL
//
// The response is text/html unless the client sends Accept: application/json.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orgMode, err := kiwimark.ParseOrgMode(q.Get("org_mode"))
	if err != nil {
		jsonError(w, err.Error()+" (valid values: auto, on, off)", http.StatusBadRequest)
		return
	}

	conv := s.escaped
	if v := q.Get("escape_html"); v != "" {
		escape, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, fmt.Sprintf("invalid escape_html %q", v), http.StatusBadRequest)
			return
		}
		if !escape {
			conv = s.raw
		}
	} else if !s.opts.EscapeHTML {
		conv = s.raw
	}

	standalone := q.Get("title") != "" || q.Has("style")
	if v := q.Get("standalone"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, fmt.Sprintf("invalid standalone %q", v), http.StatusBadRequest)
			return
		}
		standalone = standalone || b
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.opts.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	input := kiwimark.Input{
		Text:    string(data),
		OrgMode: orgMode,
		BaseURL: q.Get("base_url"),
	}
	if standalone {
		page, err := s.page(q.Get("title"), q.Get("style"), q.Has("style"))
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		input.Page = page
	}

	result, err := conv.Convert(input)
	if err != nil {
		if errors.Is(err, kiwimark.ErrInvalidBaseURL) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("conversion failed",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		jsonError(w, "conversion failed", http.StatusInternalServerError)
		return
	}

	warnings := make([]string, 0, len(result.Warnings))
	for _, warn := range result.Warnings {
		warnings = append(warnings, warn.Error())
		s.log.Warn("conversion warning",
			"request_id", middleware.GetReqID(r.Context()),
			"warning", warn.Error(),
		)
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, convertResponse{
			HTML:     result.HTML,
			Title:    result.Title,
			OrgMode:  result.OrgMode,
			Warnings: warnings,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Kiwimark-Org-Mode", strconv.FormatBool(result.OrgMode))
	w.Header().Set("X-Kiwimark-Warnings", strconv.Itoa(len(warnings)))
	_, _ = io.WriteString(w, result.HTML)
}

// page builds standalone page options. The stylesheet is loaded only when
// the request names one; an empty name selects the default style.
func (s *Server) page(title, style string, withStyle bool) (*kiwimark.Page, error) {
	page := &kiwimark.Page{Title: title}
	if !withStyle {
		return page, nil
	}

	css, err := s.opts.Styles.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, err
		}
		s.log.Error("loading style", "style", style, "error", err)
		return nil, errors.New("style unavailable")
	}
	page.CSS = css
	return page, nil
}

// handleStyles lists the style names the style parameter accepts.
func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	names, err := s.opts.Styles.Names()
	if err != nil {
		s.log.Error("listing styles", "error", err)
		jsonError(w, "styles unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"styles": names})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
