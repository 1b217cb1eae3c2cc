package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portintel/pkg/portintel"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, portintel.WrapError(portintel.ErrCodeInvalidInput, "invalid request body", err))
		return
	}
	if len(req.Transactions) == 0 {
		writeErrorResponse(w, portintel.NewError(portintel.ErrCodeInvalidInput, "transactions are required"))
		return
	}

	result, err := h.core.Analyze(r.Context(), req.Transactions)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) listPortfolios(w http.ResponseWriter, r *http.Request) {
	names, err := h.core.ListPortfolios()
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeSuccess(w, names)
}

func (h *handler) savePortfolio(w http.ResponseWriter, r *http.Request) {
	var req savePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, portintel.WrapError(portintel.ErrCodeInvalidInput, "invalid request body", err))
		return
	}
	if err := h.core.SavePortfolio(req.Name, req.Transactions); err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeSuccessWithMessage(w, fmt.Sprintf("saved as %q", req.Name), nil)
}

func (h *handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	transactions, err := h.core.LoadPortfolio(name)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	if transactions == nil {
		transactions = []portintel.Transaction{}
	}
	writeSuccess(w, transactions)
}

func (h *handler) analyzePortfolio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result, err := h.core.AnalyzePortfolio(r.Context(), name)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	report, err := h.core.PortfolioReport(r.Context(), name)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"_report.xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report)
}

func (h *handler) getPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	quote, live, err := h.core.LookupPrice(r.Context(), symbol)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeSuccess(w, priceResponse{Quote: quote, Live: live})
}

func (h *handler) aiAdvice(w http.ResponseWriter, r *http.Request) {
	var req aiAdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, portintel.WrapError(portintel.ErrCodeInvalidInput, "invalid request body", err))
		return
	}

	transactions := req.Transactions
	if len(transactions) == 0 && req.Portfolio != "" {
		loaded, err := h.core.LoadPortfolio(req.Portfolio)
		if err != nil {
			writeErrorResponse(w, err)
			return
		}
		transactions = loaded
	}
	if len(transactions) == 0 {
		writeErrorResponse(w, portintel.NewError(portintel.ErrCodeInvalidInput, "transactions or portfolio are required"))
		return
	}

	analysis, err := h.core.Analyze(r.Context(), transactions)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	advice, err := h.core.AIAdvice(r.Context(), portintel.AIAdviceRequest{
		APIKey:  req.APIKey,
		Model:   req.Model,
		Rows:    analysis.Rows,
		Metrics: analysis.Metrics,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeSuccess(w, advice)
}
