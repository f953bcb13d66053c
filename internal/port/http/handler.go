package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shaymaabd/AMPA/internal/catalog"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/service"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	sessions   service.SessionService
	search     service.SearchService
	cart       service.CartService
	agreements service.AgreementService
	inquiries  service.InquiryService
	chat       service.ChatService
	cookie     SessionCookieConfig
	log        logger.Logger
}

func NewHandler(
	sessions service.SessionService,
	search service.SearchService,
	cart service.CartService,
	agreements service.AgreementService,
	inquiries service.InquiryService,
	chat service.ChatService,
	cookie SessionCookieConfig,
	log logger.Logger,
) *Handler {
	return &Handler{
		sessions:   sessions,
		search:     search,
		cart:       cart,
		agreements: agreements,
		inquiries:  inquiries,
		chat:       chat,
		cookie:     cookie,
		log:        log,
	}
}

// decode reads a JSON body into dst and runs struct validation. It writes
// the 400 response itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) EnsureSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionResponse{SessionID: SessionIDFromContext(r.Context())})
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), SessionIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	// drop any refreshed cookie the middleware queued
	w.Header().Del("Set-Cookie")
	setSessionCookie(w, h.cookie, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	conditions := make([]string, 0, len(catalog.ConditionFilters))
	for _, c := range catalog.ConditionFilters {
		conditions = append(conditions, c.Label)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories":   catalog.Categories,
		"conditions":   conditions,
		"sort_options": entity.SortOptions,
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequestDTO
	if !decode(w, r, &req) {
		return
	}
	sort, err := entity.ParseSortDirective(req.Sort)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}

	page, err := h.search.Search(r.Context(), SessionIDFromContext(r.Context()), service.SearchParams{
		Term:        req.Term,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Condition:   req.Condition,
		MaxPrice:    req.MaxPrice,
		Sort:        sort,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) ViewResults(w http.ResponseWriter, r *http.Request) {
	var sortPtr *entity.SortDirective
	if raw := r.URL.Query().Get("sort"); raw != "" {
		sort, err := entity.ParseSortDirective(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_sort", err.Error())
			return
		}
		sortPtr = &sort
	}
	var pagePtr *int
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_page", fmt.Sprintf("page must be an integer, got %q", raw))
			return
		}
		pagePtr = &page
	}

	page, err := h.search.View(r.Context(), SessionIDFromContext(r.Context()), sortPtr, pagePtr)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) NextPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.search.Next(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) PrevPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.search.Prev(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.GetCart(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequestDTO
	if !decode(w, r, &req) {
		return
	}
	view, added, err := h.cart.AddItem(r.Context(), SessionIDFromContext(r.Context()), req.ListingID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondJSON(w, status, CartItemResponse{Added: added, Cart: view})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.RemoveItem(r.Context(), SessionIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), SessionIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CartSellers(w http.ResponseWriter, r *http.Request) {
	groups, err := h.cart.Sellers(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (h *Handler) DownloadAgreement(w http.ResponseWriter, r *http.Request) {
	seller := chi.URLParam(r, "seller")
	doc, err := h.agreements.Generate(r.Context(), SessionIDFromContext(r.Context()), seller)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.PDF)))
	if len(doc.SkippedSteps) > 0 {
		w.Header().Set("X-Agreement-Skipped", fmt.Sprint(doc.SkippedSteps))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.PDF); err != nil {
		h.log.Warnf("Failed to write agreement for seller %s: %v", seller, err)
	}
}

func (h *Handler) AgreementHistory(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	records, err := h.agreements.History(r.Context(), SessionIDFromContext(r.Context()), limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handler) InquiryDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.inquiries.Draft(r.Context(), SessionIDFromContext(r.Context()), chi.URLParam(r, "listingID"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

func (h *Handler) SendInquiry(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequestDTO
	if !decode(w, r, &req) {
		return
	}
	err := h.inquiries.Send(r.Context(), SessionIDFromContext(r.Context()), service.InquiryRequest{
		ListingID:       req.ListingID,
		To:              req.To,
		Subject:         req.Subject,
		Body:            req.Body,
		AttachAgreement: req.AttachAgreement,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequestDTO
	if !decode(w, r, &req) {
		return
	}
	reply, err := h.chat.Converse(r.Context(), SessionIDFromContext(r.Context()), req.Message, req.Model)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.chat.History(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *Handler) ChatModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.chat.Models())
}

func (h *Handler) ROI(w http.ResponseWriter, r *http.Request) {
	var in service.ROIInput
	if !decode(w, r, &in) {
		return
	}
	res, err := service.CalculateROI(in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
