package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds every request body; amounts and ids fit in far less.
const maxBodyBytes = 1 << 16

type AccountService interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, accountID string) (models.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error)
	TransferMoney(ctx context.Context, fromID, toID string, amount decimal.Decimal) (models.Transfer, error)
}

type Handler struct {
	service AccountService
}

func NewHandler(service AccountService) *Handler {
	return &Handler{service: service}
}

// Routes returns the mux with every endpoint registered, wrapped in request
// logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /v1/accounts", h.createAccount)
	mux.HandleFunc("GET /v1/accounts/{accountId}", h.getAccount)
	mux.HandleFunc("POST /v1/accounts/transfer", h.transferMoney)
	mux.HandleFunc("POST /v1/accounts/{accountId}/deposit", h.deposit)
	mux.HandleFunc("POST /v1/accounts/{accountId}/withdraw", h.withdraw)

	return logRequests(mux)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decode(w, r, &req); err != nil {
		writeJSON(w, decodeStatus(err), ErrorResponse[AccountResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse[AccountResponse]("validation failed", err.Error()))
		return
	}

	account := models.Account{ID: strings.TrimSpace(req.AccountID), Balance: *req.Balance}
	if err := h.service.CreateAccount(r.Context(), account); err != nil {
		status := statusFor(err)
		writeJSON(w, status, ErrorResponse[AccountResponse](messageFor(status), err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, SuccessResponse("account created successfully", toAccountResponse(account)))
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccount(r.Context(), r.PathValue("accountId"))
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, models.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse[AccountResponse](messageFor(status), err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse("account fetched successfully", toAccountResponse(account)))
}

func (h *Handler) transferMoney(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decode(w, r, &req); err != nil {
		writeJSON(w, decodeStatus(err), ErrorResponse[TransferResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse[TransferResponse]("validation failed", err.Error()))
		return
	}

	receipt, err := h.service.TransferMoney(r.Context(),
		strings.TrimSpace(req.AccountFrom),
		strings.TrimSpace(req.AccountTo),
		*req.Amount,
	)
	if err != nil {
		status := statusFor(err)
		writeJSON(w, status, ErrorResponse[TransferResponse](messageFor(status), err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse("transfer successful", TransferResponse{
		TransferID:  receipt.ID,
		AccountFrom: receipt.FromAccount,
		AccountTo:   receipt.ToAccount,
		Amount:      receipt.Amount.StringFixed(models.MaxScale),
		CreatedAt:   receipt.CreatedAt.Format(time.RFC3339),
	}))
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "funds deposited successfully", h.service.Deposit)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "funds withdrawn successfully", h.service.Withdraw)
}

func (h *Handler) applyAmount(
	w http.ResponseWriter,
	r *http.Request,
	success string,
	apply func(context.Context, string, decimal.Decimal) (models.Account, error),
) {
	var req AmountRequest
	if err := decode(w, r, &req); err != nil {
		writeJSON(w, decodeStatus(err), ErrorResponse[AccountResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse[AccountResponse]("validation failed", err.Error()))
		return
	}

	account, err := apply(r.Context(), r.PathValue("accountId"), *req.Amount)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, models.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse[AccountResponse](messageFor(status), err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse(success, toAccountResponse(account)))
}

// statusFor maps core errors to a status. Every caller-input error is a bad
// request; anything else is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrDuplicateAccountID),
		errors.Is(err, models.ErrSameAccount),
		errors.Is(err, models.ErrInvalidAccountID),
		errors.Is(err, models.ErrNegativeBalance),
		errors.Is(err, models.ErrUnsupportedPrecision):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Account not found"
	case http.StatusBadRequest:
		return "request rejected"
	default:
		return "Unable to process request right now"
	}
}

func toAccountResponse(account models.Account) AccountResponse {
	return AccountResponse{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(models.MaxScale),
	}
}

// decode reads one JSON value from a size-limited body. Unknown fields are
// ignored.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

func decodeStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		fields := logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": time.Since(start).Milliseconds(),
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Error("http request failed", nil, fields)
			return
		}
		logger.Info("http request", fields)
	})
}
