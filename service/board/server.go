package board

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/incentivar/cartela-board/model"
	"github.com/incentivar/cartela-board/pkg/otellib"
	"github.com/incentivar/cartela-board/upstream"
	"go.uber.org/zap"
)

// Server exposes the board service over HTTP/JSON
type Server struct {
	service IService
	logger  *zap.Logger
}

// NewServer ...
func NewServer(service IService, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		logger:  logger,
	}
}

// Mount returns the router with all v1 routes
func (s *Server) Mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(otellib.Middleware(s.logger))
	r.Use(bearerToken)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/campanhas/{id}", func(r chi.Router) {
			r.Get("/board", s.handleBoard)
			r.Get("/analytics", s.handleAnalytics)
		})

		r.Get("/dashboard/{papel}", s.handleDashboard)
		r.Get("/equipe", s.handleMyTeam)
		r.Get("/ranking/gerente", s.handleManagerRanking)

		r.Route("/envios-venda/{id}", func(r chi.Router) {
			r.Patch("/validar-manual", s.handleValidate)
			r.Patch("/rejeitar-manual", s.handleReject)
		})

		r.Route("/validacao", func(r chi.Router) {
			r.Get("/mapeamento", s.handleGetColumnMapping)
			r.Post("/mapeamento", s.handleSaveColumnMapping)
		})
		r.Get("/imports/staging", s.handleStagingSearch)
	})

	return r
}

// bearerToken carries the caller's token into the context so every
// upstream call forwards it
func bearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			ctx := upstream.WithToken(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id de campanha inválido")
		return
	}
	sellerID := r.URL.Query().Get("vendedorId")
	if sellerID == "" {
		writeJSONError(w, http.StatusBadRequest, "vendedorId é obrigatório")
		return
	}

	view, err := s.service.Board(r.Context(), BoardInput{
		CampaignID: campaignID,
		SellerID:   sellerID,
		CurrentTab: r.URL.Query().Get("aba"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id de campanha inválido")
		return
	}

	analytics, err := s.service.Analytics(r.Context(), campaignID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	role := model.Role(chi.URLParam(r, "papel"))
	switch role {
	case model.RoleSeller, model.RoleManager, model.RoleAdmin:
	default:
		writeJSONError(w, http.StatusBadRequest, "papel desconhecido")
		return
	}

	payload, err := s.service.Dashboard(r.Context(), role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleMyTeam(w http.ResponseWriter, r *http.Request) {
	members, err := s.service.MyTeam(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleManagerRanking(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.ManagerRanking(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	submissionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id de envio inválido")
		return
	}

	if err := s.service.ValidateSubmission(r.Context(), submissionID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "VALIDADO"})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	submissionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id de envio inválido")
		return
	}

	var body struct {
		Reason string `json:"motivoRejeicao"`
	}
	if err := readJSON(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(body.Reason) == "" {
		writeJSONError(w, http.StatusBadRequest, "motivoRejeicao é obrigatório")
		return
	}

	if err := s.service.RejectSubmission(r.Context(), submissionID, body.Reason); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "REJEITADO"})
}

func (s *Server) handleGetColumnMapping(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseInt(r.URL.Query().Get("campanhaId"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "campanhaId é obrigatório")
		return
	}

	mapping, err := s.service.ColumnMapping(r.Context(), campaignID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

func (s *Server) handleSaveColumnMapping(w http.ResponseWriter, r *http.Request) {
	var mapping model.ColumnMapping
	if err := readJSON(r, &mapping); err != nil {
		writeJSONError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if mapping.CampaignID == 0 || len(mapping.Columns) == 0 {
		writeJSONError(w, http.StatusBadRequest, "campanhaId e colunas são obrigatórios")
		return
	}

	if err := s.service.SaveColumnMapping(r.Context(), mapping); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping)
}

func (s *Server) handleStagingSearch(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseInt(r.URL.Query().Get("campanhaId"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "campanhaId é obrigatório")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("tamanhoPagina"))

	result, err := s.service.StagingSearch(r.Context(), model.StagingQuery{
		CampaignID: campaignID,
		Search:     r.URL.Query().Get("busca"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeError maps the upstream error taxonomy onto responses: expired
// credentials become a login notice, backend rejections keep their message
// and status, everything else is the generic message
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if err == upstream.ErrUnauthorized {
		writeJSONError(w, http.StatusUnauthorized, "Sessão expirada. Faça login novamente.")
		return
	}

	if apiErr, ok := upstream.AsAPIError(err); ok {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			writeJSONError(w, apiErr.StatusCode, apiErr.Message)
			return
		}
		writeJSONError(w, http.StatusBadGateway, upstream.GenericMessage)
		return
	}

	otellib.Extract(r.Context()).Error("unhandled request error", zap.Error(err))
	writeJSONError(w, http.StatusInternalServerError, upstream.GenericMessage)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"erro": message})
}

func readJSON(r *http.Request, data interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(data)
}
