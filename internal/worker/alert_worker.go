package worker

import (
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/service"
)

// StartAlertWorker registers operator alert handlers.
func StartAlertWorker(alertService *service.AlertService) {
	if alertService == nil {
		return
	}
	alertService.RegisterHandlers()
}
