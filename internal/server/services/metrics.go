package services

import (
	"errors"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OperationRegister      = "register"
	OperationLogin         = "login"
	OperationResetPassword = "reset_password"
)

// Metrics counts auth operations by outcome.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics registers the auth collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "learnpoke",
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Auth operations by operation and result.",
		}, []string{"operation", "result"}),
	}
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, common.ErrorValidation):
		return "invalid_input"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "duplicate_username"
	case errors.Is(err, common.ErrorUnauthorized):
		return "invalid_credentials"
	case errors.Is(err, common.ErrorNotFound):
		return "user_not_found"
	case errors.Is(err, common.ErrRecoveryAnswerMismatch):
		return "recovery_answer_mismatch"
	case errors.Is(err, common.ErrPasswordMismatch):
		return "password_mismatch"
	default:
		return "internal_error"
	}
}
