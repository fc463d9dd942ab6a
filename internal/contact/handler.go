package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/contacts-api/internal/httputil"
	"github.com/redmonkez12/contacts-api/internal/logging"
)

const (
	defaultPageSize       = 10
	maxPageSize           = 100
	defaultBirthdayWindow = 7
)

// Handler contains HTTP handlers for contact endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ContactRequest represents the contact creation request body
type ContactRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	DateOfBirth    Date    `json:"date_of_birth"`
	AdditionalData *string `json:"additional_data,omitempty"`
}

// ContactUpdateRequest represents a partial contact update; absent
// fields are left unchanged
type ContactUpdateRequest struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	DateOfBirth    *Date   `json:"date_of_birth,omitempty"`
	AdditionalData *string `json:"additional_data,omitempty"`
}

// ContactListResponse represents a page of contacts
type ContactListResponse struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Create handles contact creation
// @Summary      Create a contact
// @Description  Create a new contact. Names are title-cased, phone numbers normalized to digits.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ContactRequest true "Contact fields"
// @Success      201 {object} Contact
// @Failure      400 {object} ErrorResponse "Validation error"
// @Failure      409 {object} ErrorResponse "Email already exists"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid contact request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateContact(r.Context(), CreateInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		DateOfBirth:    req.DateOfBirth,
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to create contact")
		return
	}

	logger.Info("contact created", "contact_id", created.ID)

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// List handles contact listing with pagination
// @Summary      List contacts
// @Description  Return a page of contacts plus the total count
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number (1-based)" default(1)
// @Param        page_size query int false "Page size (1-100)" default(10)
// @Success      200 {object} ContactListResponse
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	page, pageSize := pageParams(r)

	contacts, total, err := h.service.ListContacts(r.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		logger.Error("failed to list contacts", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list contacts", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ContactListResponse{
		Contacts: contacts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, http.StatusOK)
}

// Search handles contact search
// @Summary      Search contacts
// @Description  Case-insensitive substring search across first name, last name and email
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Search query"
// @Param        page query int false "Page number (1-based)" default(1)
// @Param        page_size query int false "Page size (1-100)" default(10)
// @Success      200 {object} ContactListResponse
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	page, pageSize := pageParams(r)
	query := r.URL.Query().Get("q")

	contacts, total, err := h.service.SearchContacts(r.Context(), query, (page-1)*pageSize, pageSize)
	if err != nil {
		logger.Error("failed to search contacts", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to search contacts", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ContactListResponse{
		Contacts: contacts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, http.StatusOK)
}

// Birthdays handles the upcoming birthdays query
// @Summary      Upcoming birthdays
// @Description  Return contacts whose birthday falls within the next N days, handling year wraparound
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Window in days (1-365)" default(7)
// @Success      200 {array} Contact
// @Failure      400 {object} ErrorResponse "Invalid window"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts/birthdays [get]
func (h *Handler) Birthdays(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	days := defaultBirthdayWindow
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondErrorWithCode(w, "days must be an integer", httputil.CodeInvalidQueryParam, http.StatusBadRequest)
			return
		}
		days = parsed
	}

	contacts, err := h.service.UpcomingBirthdays(r.Context(), days)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("failed to get upcoming birthdays", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get upcoming birthdays", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, contacts, http.StatusOK)
}

// Get handles single contact retrieval
// @Summary      Get a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contact ID"
// @Success      200 {object} Contact
// @Failure      404 {object} ErrorResponse "Contact not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := contactIDParam(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetContact(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to get contact")
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}

// Update handles partial contact updates
// @Summary      Update a contact
// @Description  Partial update: only the supplied fields change. Supplied fields are validated like on create.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contact ID"
// @Param        request body ContactUpdateRequest true "Fields to update"
// @Success      200 {object} Contact
// @Failure      400 {object} ErrorResponse "Validation error"
// @Failure      404 {object} ErrorResponse "Contact not found"
// @Failure      409 {object} ErrorResponse "Email already exists"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := contactIDParam(w, r)
	if !ok {
		return
	}

	var req ContactUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid contact update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateContact(r.Context(), id, UpdateInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		DateOfBirth:    req.DateOfBirth,
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to update contact")
		return
	}

	logger.Info("contact updated", "contact_id", id)

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles contact deletion
// @Summary      Delete a contact
// @Tags         contacts
// @Security     BearerAuth
// @Param        id path string true "Contact ID"
// @Success      204 "No Content"
// @Failure      404 {object} ErrorResponse "Contact not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /contacts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := contactIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteContact(r.Context(), id); err != nil {
		h.respondServiceError(w, logger, err, "failed to delete contact")
		return
	}

	logger.Info("contact deleted", "contact_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// respondServiceError maps domain errors to HTTP responses
func (h *Handler) respondServiceError(w http.ResponseWriter, logger *logging.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrValidation):
		logger.Warn("contact validation failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
	case errors.Is(err, ErrDuplicateEmail):
		logger.Warn("contact email already exists")
		httputil.RespondErrorWithCode(w, "contact with this email already exists", httputil.CodeContactEmailExists, http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "contact not found", httputil.CodeContactNotFound, http.StatusNotFound)
	default:
		logger.Error(internalMsg, "error", err.Error())
		httputil.RespondErrorWithCode(w, internalMsg, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

// contactIDParam parses the {id} path parameter, responding 404 on a
// malformed UUID since no contact can have such an ID
func contactIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "contact not found", httputil.CodeContactNotFound, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads the 1-based page and page_size query parameters,
// clamping them to sane bounds
func pageParams(r *http.Request) (page, pageSize int) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			page = parsed
		}
	}

	pageSize = defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= maxPageSize {
			pageSize = parsed
		}
	}

	return page, pageSize
}
