package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dan9191/bank-analytics/internal/investment"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/middleware"
	"github.com/Dan9191/bank-analytics/internal/overview"
	"github.com/Dan9191/bank-analytics/internal/report"
	"github.com/Dan9191/bank-analytics/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log logrus.FieldLogger
	now func() time.Time
}

func NewHandler(svc *service.Service, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: logging.Component(log, "http"), now: time.Now}
}

// Router registers all routes with the request id, logging and recovery
// middleware applied.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(h.log), middleware.Recovery(h.log))

	r.HandleFunc("/investment", h.Investment).Methods(http.MethodPost)
	r.HandleFunc("/investment/example", h.InvestmentExample).Methods(http.MethodGet)
	r.HandleFunc("/overview", h.Overview).Methods(http.MethodGet)
	r.HandleFunc("/reports/category", h.CategoryReport).Methods(http.MethodGet)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)

	return r
}

type investmentRequest struct {
	Month        string              `json:"month"`
	Limit        interface{}         `json:"limit"`
	Transactions []investment.Record `json:"transactions"`
}

// Investment handles POST /investment. Without transactions in the body the
// operations report is used.
func (h *Handler) Investment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var res investment.Result
	if req.Transactions != nil {
		res = h.svc.InvestmentFor(req.Month, req.Transactions, req.Limit)
	} else {
		var err error
		res, err = h.svc.Investment(req.Month, req.Limit)
		if err != nil {
			h.log.WithError(err).Error("Failed to calculate investment")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load operations")
			return
		}
	}

	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	middleware.WriteJSON(w, status, res)
}

// InvestmentExample handles GET /investment/example
func (h *Handler) InvestmentExample(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, investment.ExampleInvestment())
}

// Overview handles GET /overview?date_time=YYYY-MM-DD HH:MM:SS. The current
// time is used when date_time is omitted.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	dateTime := r.URL.Query().Get("date_time")
	if dateTime == "" {
		dateTime = h.now().Format(overview.DateTimeLayout)
	}

	ov, err := h.svc.Overview(r.Context(), dateTime)
	if errors.Is(err, overview.ErrInvalidDateTime) {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to build overview")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build overview")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, ov)
}

type categoryReportResponse struct {
	Category string               `json:"category"`
	File     string               `json:"file"`
	Rows     report.SpendingTable `json:"rows"`
}

// CategoryReport handles GET /reports/category?category=&date=
func (h *Handler) CategoryReport(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		middleware.WriteError(w, http.StatusBadRequest, "category is required")
		return
	}

	table, err := h.svc.CategoryReport(category, r.URL.Query().Get("date"))
	if err != nil {
		h.log.WithError(err).Error("Failed to build category report")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build category report")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, categoryReportResponse{
		Category: category,
		File:     h.svc.ReportFile(),
		Rows:     table,
	})
}

// KeyRate handles GET /key-rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if errors.Is(err, service.ErrKeyRateUnavailable) {
		middleware.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to get key rate")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to get key rate")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}
