package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/storage"
)

// hostnamePattern accepts registrable domain names, label dot label,
// no scheme, no port.
var hostnamePattern = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// statusHandler returns the latest sweep results as a JSON array.
func (s *Server) statusHandler(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.checker.Results().GetAll())
}

// checkHandler verifies a single domain on demand. The result is
// always 200, a failed verification is an Error record, not an HTTP
// error.
func (s *Server) checkHandler(w http.ResponseWriter, req *http.Request) {
	domain := chi.URLParam(req, "domain")
	writeJSON(w, http.StatusOK, s.checker.CheckDomain(req.Context(), domain))
}

// bulkAddHandler adds the well-formed, not yet monitored domains from
// the submitted batch. The response reports how many were accepted;
// 400 when none were.
func (s *Server) bulkAddHandler(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Domains []string `json:"domains"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seen := make(map[string]struct{}, len(body.Domains))
	valid := make([]string, 0, len(body.Domains))
	for _, domain := range body.Domains {
		domain = strings.TrimSpace(domain)
		if !hostnamePattern.MatchString(domain) {
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}
		valid = append(valid, domain)
	}

	if len(valid) == 0 {
		writeDetail(w, http.StatusBadRequest, "no valid new domain to add (invalid format or duplicate)")
		return
	}

	added, err := s.storage.AddDomains(req.Context(), valid)
	if err != nil {
		s.logger.Error("failed to add domains", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "failed to store domains")
		return
	}

	if added == 0 {
		writeDetail(w, http.StatusBadRequest, "no valid new domain to add (invalid format or duplicate)")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%d domain(s) added to the monitoring list", added),
	})
}

// deleteHandler removes a domain from the monitored set.
func (s *Server) deleteHandler(w http.ResponseWriter, req *http.Request) {
	domain := chi.URLParam(req, "domain")

	if err := s.storage.DeleteDomain(req.Context(), domain); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "domain not found")
			return
		}

		s.logger.Error("failed to delete domain",
			zap.String("domain", domain),
			zap.Error(err),
		)
		writeDetail(w, http.StatusInternalServerError, "failed to delete domain")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("domain %q removed", domain),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck,gosec
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
