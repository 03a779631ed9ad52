package handler

import (
	"errors"
	"net/http"

	"bed-management-backend/internal/service"
	"bed-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// staffHeader optionally names the staff member acting, for the audit log
const staffHeader = "X-Staff-ID"

func actor(c *gin.Context) string {
	return c.GetHeader(staffHeader)
}

// respondError maps service errors onto HTTP statuses. Unknown errors become
// a 500 with the fallback message so store details are not leaked.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.FieldErrorResponse(c, "validation failed", verr.Fields)
	case errors.Is(err, service.ErrBedTaken):
		utils.ErrorResponse(c, http.StatusConflict, "bed is no longer free, refresh recommendations and choose again")
	case errors.Is(err, service.ErrAdmissionHasBed),
		errors.Is(err, service.ErrMultipleOpenAdmissions),
		errors.Is(err, service.ErrOpenAdmissionExists),
		errors.Is(err, service.ErrIntakeStageLocked):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBedNotFound),
		errors.Is(err, service.ErrNoOpenAdmission),
		errors.Is(err, service.ErrAIRunNotFound),
		errors.Is(err, service.ErrPatientNotFound),
		errors.Is(err, service.ErrIntakeSessionNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAIUnavailable):
		utils.ErrorResponse(c, http.StatusBadGateway, "could not connect to the AI scorer")
	case errors.Is(err, service.ErrRecommendationsUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "recommendations unavailable")
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}
