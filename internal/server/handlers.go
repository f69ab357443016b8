package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shazow/wifisnap/match"
	"github.com/shazow/wifisnap/resolve"
	"github.com/shazow/wifisnap/wifi"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ExtractRequest carries a QR payload or recognized label text.
type ExtractRequest struct {
	QR   string `json:"qr,omitempty"`
	Text string `json:"text,omitempty"`
}

type ExtractResponse struct {
	Credentials wifi.Credentials `json:"credentials"`
}

type CatalogRequest struct {
	Networks         []wifi.Network `json:"networks"`
	IncludeUnsecured bool           `json:"include_unsecured,omitempty"`
}

// CatalogEntry is a network annotated with its security label.
type CatalogEntry struct {
	wifi.Network
	Security string `json:"security"`
}

type CatalogResponse struct {
	Networks []CatalogEntry `json:"networks"`
}

type MatchRequest struct {
	Target    string         `json:"target"`
	Networks  []wifi.Network `json:"networks"`
	Threshold *float64       `json:"threshold,omitempty"`
}

type MatchResponse struct {
	Results []match.Result `json:"results"`
}

type ResolveRequest struct {
	ExtractRequest
	Auto bool `json:"auto,omitempty"`
}

type ResolveResponse struct {
	resolve.Resolution
	ScanError string `json:"scan_error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps resolution outcomes onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, wifi.ErrCollaboratorFailure):
		return http.StatusBadGateway
	case wifi.Kind(err) != "":
		return http.StatusUnprocessableEntity
	case errors.Is(err, wifi.ErrNotSupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	kind := wifi.Kind(err)
	if kind == "" {
		kind = "Internal"
	}
	writeJSON(w, statusFor(err), ErrorResponse{Error: kind, Message: err.Error()})
}

// decode reads a JSON body into v, writing the error response on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "RequestTooLarge",
			Message: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit),
		})
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "BadRequest", Message: err.Error()})
	return false
}

func (req ExtractRequest) source(w http.ResponseWriter) (resolve.Source, bool) {
	if req.QR == "" && req.Text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "BadRequest", Message: "qr or text is required"})
		return resolve.Source{}, false
	}
	return resolve.Source{QR: req.QR, Text: req.Text}, true
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !decode(w, r, &req) {
		return
	}
	src, ok := req.source(w)
	if !ok {
		return
	}
	creds, err := s.Resolver.Extract(r.Context(), src)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExtractResponse{Credentials: creds})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var req CatalogRequest
	if !decode(w, r, &req) {
		return
	}
	opts := s.Resolver.Catalog
	opts.IncludeUnsecured = req.IncludeUnsecured

	nets := opts.Build(req.Networks)
	resp := CatalogResponse{Networks: make([]CatalogEntry, len(nets))}
	for i, n := range nets {
		resp.Networks[i] = CatalogEntry{Network: n, Security: n.Security().String()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !decode(w, r, &req) {
		return
	}
	matcher := s.Resolver.Matcher
	if req.Threshold != nil {
		matcher = match.New(*req.Threshold)
	}
	results := matcher.Rank(req.Target, s.Resolver.Catalog.Build(req.Networks))
	writeJSON(w, http.StatusOK, MatchResponse{Results: results})
}

// handleResolve runs the whole flow against the server host's own radio.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if !decode(w, r, &req) {
		return
	}
	src, ok := req.source(w)
	if !ok {
		return
	}
	mode := resolve.ModeList
	if req.Auto {
		mode = resolve.ModeAutoSelect
	}

	res, err := s.Resolver.Resolve(r.Context(), src, mode)
	resp := ResolveResponse{Resolution: res}
	if res.ScanErr != nil {
		resp.ScanError = res.ScanErr.Error()
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, wifi.ErrEmptyCatalog), errors.Is(err, wifi.ErrNoMatchAboveThreshold):
		// The extracted credentials are still useful for manual entry.
		writeJSON(w, http.StatusUnprocessableEntity, struct {
			ErrorResponse
			Resolution ResolveResponse `json:"resolution"`
		}{ErrorResponse{Error: wifi.Kind(err), Message: err.Error()}, resp})
	default:
		writeError(w, err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
