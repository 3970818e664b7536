package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course_platform_backend/pkg/logger"
)

// PaymentService records purchases and turns a completed payment into an
// enrollment.
type PaymentService struct {
	Payments    *repository.PaymentRepository
	Courses     *repository.CourseRepository
	Enrollments *EnrollmentService
	log         *zap.Logger
}

func NewPaymentService(payments *repository.PaymentRepository, courses *repository.CourseRepository, enrollments *EnrollmentService) *PaymentService {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{Payments: payments, Courses: courses, Enrollments: enrollments, log: log}
}

type PaymentInput struct {
	CourseID      int64   `json:"course_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

// CreatePayment opens a pending ledger entry with a fresh transaction id.
func (s *PaymentService) CreatePayment(userID int64, in PaymentInput) (*model.Payment, error) {
	if _, ok := s.Courses.Get(in.CourseID); !ok {
		return nil, util.ErrCourseNotFound
	}
	method, err := model.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, &util.ValidationError{Field: "payment_method", Reason: err.Error()}
	}
	if in.Amount <= 0 {
		return nil, &util.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	return s.Payments.Create(&model.Payment{
		UserID:        userID,
		CourseID:      in.CourseID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		PaymentMethod: method,
		TransactionID: uuid.NewString(),
	})
}

// ProcessPayment settles a pending payment and enrolls the buyer. An existing
// active enrollment does not fail the settlement.
func (s *PaymentService) ProcessPayment(id int64) (*model.Payment, error) {
	p, ok := s.Payments.Get(id)
	if !ok {
		return nil, fmt.Errorf("payment %d not found", id)
	}
	if p.Status != model.PaymentPending {
		return nil, &util.ValidationError{Field: "status", Reason: fmt.Sprintf("cannot process payment in status %q", p.Status)}
	}

	p, _, err := s.Payments.UpdateStatus(id, model.PaymentCompleted)
	if err != nil {
		return nil, err
	}

	if _, err := s.Enrollments.Enroll(p.UserID, p.CourseID); err != nil && !errors.Is(err, util.ErrAlreadyEnrolled) {
		s.log.Error("enrollment after payment failed",
			zap.Int64("payment_id", p.ID),
			zap.Int64("user_id", p.UserID),
			zap.Int64("course_id", p.CourseID),
			zap.Error(err))
		return p, err
	}
	return p, nil
}

// Refund marks a completed payment refunded. Dropping the enrollment is left
// to the caller.
func (s *PaymentService) Refund(id int64) (*model.Payment, error) {
	p, ok := s.Payments.Get(id)
	if !ok {
		return nil, fmt.Errorf("payment %d not found", id)
	}
	if p.Status != model.PaymentCompleted {
		return nil, &util.ValidationError{Field: "status", Reason: fmt.Sprintf("cannot refund payment in status %q", p.Status)}
	}
	p, _, err := s.Payments.UpdateStatus(id, model.PaymentRefunded)
	return p, err
}

func (s *PaymentService) UserPayments(userID int64) []*model.Payment {
	return s.Payments.ListByUser(userID)
}
