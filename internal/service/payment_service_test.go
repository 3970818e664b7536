package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *EnrollmentService, *repository.CourseRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore(client, time.Second)
	courses := repository.NewCourseRepository(store)
	enrollments := NewEnrollmentService(repository.NewEnrollmentRepository(store), courses)
	payments := NewPaymentService(repository.NewPaymentRepository(store), courses, enrollments)
	return payments, enrollments, courses
}

func TestCreatePayment(t *testing.T) {
	svc, _, courses := newPaymentFixture(t)
	course := publishedCourse(t, courses)

	p, err := svc.CreatePayment(9, PaymentInput{
		CourseID:      course.ID,
		Amount:        49.90,
		PaymentMethod: "credit_card",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != model.PaymentPending || p.Currency != "USD" {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if p.TransactionID == "" {
		t.Fatal("transaction id not assigned")
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, _, courses := newPaymentFixture(t)
	course := publishedCourse(t, courses)

	if _, err := svc.CreatePayment(9, PaymentInput{CourseID: 404, Amount: 1, PaymentMethod: "paypal"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("unknown course: %v", err)
	}

	var ve *util.ValidationError
	if _, err := svc.CreatePayment(9, PaymentInput{CourseID: course.ID, Amount: 1, PaymentMethod: "cheque"}); !errors.As(err, &ve) {
		t.Fatalf("bad method: %v", err)
	}
	if _, err := svc.CreatePayment(9, PaymentInput{CourseID: course.ID, Amount: -5, PaymentMethod: "paypal"}); !errors.As(err, &ve) {
		t.Fatalf("negative amount: %v", err)
	}
}

func TestProcessPaymentEnrolls(t *testing.T) {
	svc, enrollments, courses := newPaymentFixture(t)
	course := publishedCourse(t, courses)
	const userID = int64(9)

	p, _ := svc.CreatePayment(userID, PaymentInput{CourseID: course.ID, Amount: 10, PaymentMethod: "paypal"})

	done, err := svc.ProcessPayment(p.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if done.Status != model.PaymentCompleted {
		t.Fatalf("status = %q", done.Status)
	}
	if !enrollments.IsEnrolled(userID, course.ID) {
		t.Fatal("settlement did not enroll the buyer")
	}

	// Processing twice is rejected.
	var ve *util.ValidationError
	if _, err := svc.ProcessPayment(p.ID); !errors.As(err, &ve) {
		t.Fatalf("double process: %v", err)
	}
}

func TestProcessPaymentWithExistingEnrollment(t *testing.T) {
	svc, enrollments, courses := newPaymentFixture(t)
	course := publishedCourse(t, courses)
	const userID = int64(9)

	if _, err := enrollments.Enroll(userID, course.ID); err != nil {
		t.Fatalf("pre-enroll: %v", err)
	}
	p, _ := svc.CreatePayment(userID, PaymentInput{CourseID: course.ID, Amount: 10, PaymentMethod: "paypal"})

	if _, err := svc.ProcessPayment(p.ID); err != nil {
		t.Fatalf("existing enrollment should not fail the settlement: %v", err)
	}
}

func TestRefundRequiresCompleted(t *testing.T) {
	svc, _, courses := newPaymentFixture(t)
	course := publishedCourse(t, courses)

	p, _ := svc.CreatePayment(9, PaymentInput{CourseID: course.ID, Amount: 10, PaymentMethod: "paypal"})

	var ve *util.ValidationError
	if _, err := svc.Refund(p.ID); !errors.As(err, &ve) {
		t.Fatalf("refund of pending payment: %v", err)
	}

	svc.ProcessPayment(p.ID)
	refunded, err := svc.Refund(p.ID)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Status != model.PaymentRefunded {
		t.Fatalf("status = %q", refunded.Status)
	}
}
