package http

import (
	"errors"
	"net/http"

	"github.com/avetra/bizsync/internal/service"
	"github.com/avetra/bizsync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:              http.StatusBadRequest,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,
	service.ErrConflict:                http.StatusConflict,
	service.ErrTooLate:                 http.StatusConflict,
	service.ErrIntegrity:               http.StatusUnprocessableEntity,
	service.ErrApply:                   http.StatusUnprocessableEntity,
	service.ErrPhaseTimeout:            http.StatusGatewayTimeout,

	store.ErrSessionNotFound:   http.StatusNotFound,
	store.ErrReportNotFound:    http.StatusNotFound,
	store.ErrLeaseHeld:         http.StatusConflict,
	store.ErrMissingDependency: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
