package updatefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rovery/updatefeed/pkg/common"
)

// The body of all structured error responses.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	state, err := s.cache.Get(r.Context())
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state.Releases)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	environment := environmentFromRequest(r)
	info, err := s.engine.Decide(r.Context(), environment, r.PathValue("platform"), r.PathValue("version"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidVersion):
			s.writeError(w, http.StatusInternalServerError, "version_invalid", err.Error())
		case errors.Is(err, common.ErrInvalidPlatform):
			s.writeError(w, http.StatusInternalServerError, "platform_invalid", err.Error())
		default:
			s.writeUpstreamError(w, err)
		}
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.resolveDownload(w, r, r.PathValue("platform"))
}

// proxyDownload performs an authenticated upstream request for a private
// asset and forwards the resulting Location header to the client. The asset
// bytes never flow through this process.
func (s *Server) proxyDownload(w http.ResponseWriter, r *http.Request, asset *common.Asset) {
	request, err := http.NewRequestWithContext(r.Context(), http.MethodGet, asset.APIURL, nil)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	request.Header.Set("Accept", "application/octet-stream")
	request.Header.Set("Authorization", "Bearer "+s.config.TokenExpanded())
	response, err := s.proxyClient.Do(request)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	defer response.Body.Close()
	location := response.Header.Get("Location")
	if location == "" {
		s.writeUpstreamError(w, fmt.Errorf("the upstream response carried no download location (status %d)", response.StatusCode))
		return
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// The platform-less download route picks the platform from the user agent.
func (s *Server) handleDownloadDetect(w http.ResponseWriter, r *http.Request) {
	platformAlias, ok := platformFromUserAgent(r.UserAgent())
	if !ok {
		s.writeError(w, http.StatusNotFound, "no_download", "no download available for this user agent")
		return
	}
	s.resolveDownload(w, r, platformAlias)
}

func (s *Server) resolveDownload(w http.ResponseWriter, r *http.Request, platformAlias string) {
	environment := environmentFromRequest(r)
	updateFeed := r.URL.Query().Get("update") == "true"
	asset, err := s.engine.Resolve(r.Context(), environment, platformAlias, updateFeed)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPlatform) {
			s.writeError(w, http.StatusInternalServerError, "platform_invalid", err.Error())
			return
		}
		s.writeUpstreamError(w, err)
		return
	}
	if asset == nil {
		s.writeError(w, http.StatusNotFound, "no_download", "no download available for this platform and environment")
		return
	}
	if s.engine.PrivateMode() {
		s.proxyDownload(w, r, asset)
		return
	}
	http.Redirect(w, r, asset.URL, http.StatusFound)
}

func environmentFromRequest(r *http.Request) string {
	if environment := r.URL.Query().Get("env"); environment != "" {
		return environment
	}
	return common.ENVIRONMENT_PRODUCTION
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(fmt.Sprintf("Failed writing the response: %v", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, errorCode string, message string) {
	s.writeJSON(w, statusCode, &errorResponse{Error: errorCode, Message: message})
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	s.logger.Error(fmt.Sprintf("Upstream failure: %v", err))
	s.writeError(w, http.StatusInternalServerError, "upstream_failed", "the releases could not be loaded")
}
