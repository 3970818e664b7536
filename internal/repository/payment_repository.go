package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type PaymentRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{Store: store, log: repoLogger()}
}

func (r *PaymentRepository) Create(p *model.Payment) (*model.Payment, error) {
	if p.Status == "" {
		p.Status = model.PaymentPending
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if err := p.Shape(); err != nil {
		return nil, asValidation(err)
	}

	if p.ID == 0 {
		id, ok := r.Store.NextID("payment")
		if !ok {
			return nil, util.ErrStoreUnavailable
		}
		p.ID = id
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	data, err := EncodeRecord(p)
	if err != nil {
		return nil, err
	}

	ok := r.Store.WriteRecord(
		paymentKey(p.ID),
		data,
		map[string][]string{userPaymentsKey(p.UserID): {strconv.FormatInt(p.ID, 10)}},
		nil,
	)
	if !ok {
		return nil, util.ErrStoreUnavailable
	}
	return p, nil
}

func (r *PaymentRepository) Get(id int64) (*model.Payment, bool) {
	data, ok := r.Store.Get(paymentKey(id))
	if !ok {
		return nil, false
	}
	var p model.Payment
	if err := DecodeRecord(paymentKey(id), data, &p); err != nil {
		r.log.Warn("skipping corrupt payment record", zap.Int64("id", id), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (r *PaymentRepository) UpdateStatus(id int64, status model.PaymentStatus) (*model.Payment, bool, error) {
	if _, err := model.ParsePaymentStatus(string(status)); err != nil {
		return nil, false, &util.ValidationError{Field: "status", Reason: err.Error()}
	}
	p, ok := r.Get(id)
	if !ok {
		return nil, false, nil
	}

	p.Status = status
	p.UpdatedAt = time.Now().UTC()

	data, err := EncodeRecord(p)
	if err != nil {
		return nil, true, err
	}
	if !r.Store.Set(paymentKey(id), data) {
		return nil, true, util.ErrStoreUnavailable
	}
	return p, true, nil
}

func (r *PaymentRepository) ListByUser(userID int64) []*model.Payment {
	ids := r.Store.SetMembers(userPaymentsKey(userID))
	payments := make([]*model.Payment, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if p, ok := r.Get(id); ok {
			payments = append(payments, p)
		}
	}
	return payments
}
