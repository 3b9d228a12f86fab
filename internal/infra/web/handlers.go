package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"app-access-server/internal/domain"
	"app-access-server/internal/domain/model"
)

// ---------- request/response shapes ----------

type issueRequest struct {
	UserID string `json:"user_id"`
}

type issueResponse struct {
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
}

type verifyRequest struct {
	Code     string `json:"code"`
	DeviceID string `json:"device_id"`
}

type verifyResponse struct {
	OK           bool   `json:"ok"`
	SessionToken string `json:"session_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type validateRequest struct {
	SessionToken string `json:"session_token"`
}

type validateResponse struct {
	OK        bool  `json:"ok"`
	ExpiresAt int64 `json:"expires_at"`
}

type paymentCreateRequest struct {
	UserID string `json:"user_id"`
	Months int    `json:"months"`
	Method string `json:"method"`
}

type reviewRequest struct {
	Reviewer string `json:"reviewer"`
}

type screenshotRequest struct {
	Ref string `json:"ref"`
}

type paymentResponse struct {
	ID            int64      `json:"id"`
	UserID        string     `json:"user_id"`
	Months        int        `json:"months"`
	Method        string     `json:"method"`
	ScreenshotRef *string    `json:"screenshot_ref,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    *string    `json:"reviewed_by,omitempty"`
}

type subscriptionStatusResponse struct {
	UserID    string `json:"user_id"`
	Active    bool   `json:"active"`
	ExpiresAt *int64 `json:"expires_at"`
}

type expiringEntry struct {
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
}

func toPaymentResponse(p *model.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Months:        p.Months,
		Method:        string(p.Method),
		ScreenshotRef: p.ScreenshotRef,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		ReviewedAt:    p.ReviewedAt,
		ReviewedBy:    p.ReviewedBy,
	}
}

// ---------- code/session handlers ----------

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code, err := s.authUC.IssueCode(r.Context(), req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issueResponse{Code: code.Code, ExpiresAt: code.ExpiresAt.Unix()})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.authUC.RedeemCode(r.Context(), req.Code, req.DeviceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		OK:           true,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt.Unix(),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	expiresAt, err := s.authUC.ValidateSession(r.Context(), req.SessionToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{OK: true, ExpiresAt: expiresAt.Unix()})
}

// ---------- payment handlers ----------

func (s *Server) handlePaymentCreate(w http.ResponseWriter, r *http.Request) {
	var req paymentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.payUC.Create(r.Context(), req.UserID, req.Months, model.PaymentMethod(req.Method))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (s *Server) handlePaymentScreenshot(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}
	var req screenshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.payUC.AttachScreenshot(r.Context(), id, req.Ref); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePaymentApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	owner, newExpiry, err := s.payUC.Approve(r.Context(), id, req.Reviewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		UserID    string `json:"user_id"`
		ExpiresAt int64  `json:"expires_at"`
	}{UserID: owner, ExpiresAt: newExpiry.Unix()})
}

func (s *Server) handlePaymentReject(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	owner, err := s.payUC.Reject(r.Context(), id, req.Reviewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		UserID string `json:"user_id"`
	}{UserID: owner})
}

func (s *Server) handlePaymentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}
	p, err := s.payUC.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (s *Server) handlePaymentList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	var (
		items []*model.Payment
		err   error
	)
	if user := q.Get("user"); user != "" {
		items, err = s.payUC.ListByUser(r.Context(), user, limit)
	} else {
		var status *model.PaymentStatus
		if st := q.Get("status"); st != "" {
			ps := model.PaymentStatus(st)
			status = &ps
		}
		items, err = s.payUC.List(r.Context(), status, limit)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]paymentResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// ---------- subscription handlers ----------

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	expiresAt, active, err := s.subUC.Status(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := subscriptionStatusResponse{UserID: user, Active: active}
	if !expiresAt.IsZero() {
		unix := expiresAt.Unix()
		resp.ExpiresAt = &unix
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubscriptionExpiring(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 0 {
		writeDetail(w, http.StatusBadRequest, "invalid days")
		return
	}
	items, err := s.subUC.ListExpiring(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]expiringEntry, 0, len(items))
	for _, sub := range items {
		out = append(out, expiringEntry{UserID: sub.UserID, ExpiresAt: sub.ExpiresAt.Unix()})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---------- error mapping ----------

// writeError maps domain error kinds onto the wire contract. Every failure
// carries a stable detail string the caller can branch on.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeDetail(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrNoActiveSubscription):
		writeDetail(w, http.StatusForbidden, "subscription_required")
	case errors.Is(err, domain.ErrCodeNotFound):
		writeDetail(w, http.StatusBadRequest, "invalid_code")
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		writeDetail(w, http.StatusBadRequest, "code_used")
	case errors.Is(err, domain.ErrCodeExpired):
		writeDetail(w, http.StatusBadRequest, "code_expired")
	case errors.Is(err, domain.ErrSessionNotFound):
		writeDetail(w, http.StatusBadRequest, "invalid_session")
	case errors.Is(err, domain.ErrSessionExpired):
		writeDetail(w, http.StatusBadRequest, "session_expired")
	case errors.Is(err, domain.ErrPaymentNotFound):
		writeDetail(w, http.StatusNotFound, "payment_not_found")
	case errors.Is(err, domain.ErrPaymentNotPending):
		writeDetail(w, http.StatusConflict, "payment_not_pending")
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "internal_error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusBadRequest, "invalid payment id")
		return 0, false
	}
	return id, true
}
