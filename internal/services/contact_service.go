package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/models"
)

// EmailSender delivers a contact submission to the business inbox.
type EmailSender interface {
	SendContact(ctx context.Context, msg *models.ContactMessage) error
}

// SMSSender sends one text message and returns the provider's message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// SMSBodyFunc renders the text sent for a submission.
type SMSBodyFunc func(*models.ContactMessage) string

type ContactResult struct {
	Message   *models.ContactMessage
	EmailSent bool
	// SMS is nil when SMS delivery is not configured.
	SMS []models.SMSResult
}

type ContactService struct {
	store    *database.Store
	validate *validator.Validate
	email    EmailSender
	sms      SMSSender
	smsBody  SMSBodyFunc
	phones   []string
}

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var fieldMessages = map[string]string{
	"Name":    "Name must be at least 2 characters",
	"Email":   "Please enter a valid email address",
	"Phone":   "Please enter a valid phone number",
	"Message": "Message must be at least 10 characters",
}

func NewContactService(store *database.Store) *ContactService {
	v := validator.New()
	v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &ContactService{store: store, validate: v}
}

// WithEmail enables email notification of new submissions.
func (s *ContactService) WithEmail(sender EmailSender) *ContactService {
	s.email = sender
	return s
}

// WithSMS enables text notification of new submissions to each phone.
func (s *ContactService) WithSMS(sender SMSSender, body SMSBodyFunc, phones []string) *ContactService {
	s.sms = sender
	s.smsBody = body
	s.phones = phones
	return s
}

// Submit validates and stores a submission, then notifies the business.
// Notification failures are reported in the result and never fail the call.
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) (*ContactResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	req.PreferredDate = strings.TrimSpace(req.PreferredDate)

	if details := s.validationErrors(req); len(details) > 0 {
		return nil, apperrors.Validation("Validation failed", details)
	}

	msg := &models.ContactMessage{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Message:       req.Message,
		PreferredDate: req.PreferredDate,
	}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return nil, apperrors.Internal("Failed to save contact message to database", err)
	}
	slog.Info("contact message saved", "id", msg.ID)

	result := &ContactResult{Message: msg}
	if s.email != nil {
		if err := s.email.SendContact(ctx, msg); err != nil {
			slog.Error("contact email failed", "id", msg.ID, "error", err)
		} else {
			result.EmailSent = true
		}
	}

	if s.sms != nil {
		body := s.smsBody(msg)
		result.SMS = make([]models.SMSResult, 0, len(s.phones))
		for _, phone := range s.phones {
			sid, err := s.sms.Send(ctx, phone, body)
			if err != nil {
				slog.Error("contact sms failed", "id", msg.ID, "phone", phone, "error", err)
				result.SMS = append(result.SMS, models.SMSResult{Phone: phone, Error: err.Error()})
				continue
			}
			result.SMS = append(result.SMS, models.SMSResult{Phone: phone, Success: true, SID: sid})
		}
	}

	return result, nil
}

func (s *ContactService) validationErrors(req models.ContactRequest) []string {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := fieldMessages[fe.Field()]; ok {
			details = append(details, msg)
		} else {
			details = append(details, fe.Error())
		}
	}
	return details
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	messages, err := s.store.ListContactMessages(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch messages", err)
	}
	return messages, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteContactMessage(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return apperrors.NotFound("Message not found")
	}
	if err != nil {
		return apperrors.Internal("Failed to delete message", err)
	}
	return nil
}

func (s *ContactService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAllContactMessages(ctx)
	if err != nil {
		return 0, apperrors.Internal("Failed to delete messages", err)
	}
	return n, nil
}
