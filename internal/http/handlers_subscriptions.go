package http

import (
	"errors"
	"net/http"

	"subtrack/internal/core"
	"subtrack/internal/log"
	"subtrack/internal/services"
)

const (
	msgMissingFields = "Missing required fields"
	msgInvalidAmount = "Amount must be greater than 0"
	msgInvalidDate   = "Invalid start_date"
	msgInvalidID     = "Invalid subscription id"
	msgInvalidBody   = "Invalid request body"
	msgInternal      = "Internal server error"
	msgCreated       = "Subscription added successfully"
	msgDeleted       = "Subscription deleted successfully"
)

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.svc.List(r.Context())
	if err != nil {
		s.internalError(w, r, "List subscriptions failed", log.OpList, err)
		return
	}
	NewJSONResponse().Body(toSubscriptionsJSON(subs)).Write(w)
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Invalid request body",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeValidation)
		BadRequestError(msgInvalidBody).Write(w)
		return
	}

	sub, err := s.svc.Create(r.Context(), services.NewSubscription{
		Name:           p.Get("name"),
		Amount:         p.Get("amount"),
		StartDate:      p.Get("start_date"),
		BillingCycle:   p.Get("billing_cycle"),
		Category:       p.Get("category"),
		CustomCategory: p.Get("customCategory"),
	})
	if err != nil {
		if services.IsValidation(err) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Subscription rejected",
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeValidation,
				log.FieldOperation, log.OpValidate)
			BadRequestError(validationMessage(err)).Write(w)
			return
		}
		s.internalError(w, r, "Create subscription failed", log.OpCreate, err)
		return
	}

	NewJSONResponse().Body(createdJSON{ID: sub.ID, Message: msgCreated}).Write(w)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return msgInvalidAmount
	case errors.Is(err, core.ErrInvalidDate):
		return msgInvalidDate
	default:
		return msgMissingFields
	}
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(msgInvalidID).Write(w)
		return
	}
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.internalError(w, r, "Delete subscription failed", log.OpDelete, err)
		return
	}
	NewJSONResponse().Message(msgDeleted).Write(w)
}

// internalError logs err with its operation and answers with a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg, op string, err error) {
	log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), msg, err, log.ComponentHTTP, op,
		log.NewFields().WithErrorType(log.ErrorTypeInternal))
	InternalServerError(msgInternal).Write(w)
}
