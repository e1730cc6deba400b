package metrics

import (
	"errors"
	"time"

	"github.com/biohealth/ponto/internal/core/domain"
)

// ScanErrorReason maps a scan error to its ScanErrorsTotal label.
func ScanErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrWorkerNotIdentified):
		return "not_identified"
	case errors.Is(err, domain.ErrDuplicateScan):
		return "duplicate"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrSiteNotFound):
		return "site_not_found"
	default:
		return "internal"
	}
}

// ObserveScan records the outcome of one processed scan. eventType is
// ignored when err is set.
func ObserveScan(eventType domain.EventType, err error, elapsed time.Duration) {
	if err != nil {
		reason := ScanErrorReason(err)
		ScanErrorsTotal.WithLabelValues(reason).Inc()
		if reason == "duplicate" {
			ScanDedupTotal.WithLabelValues("hit").Inc()
		}
		ScanProcessingDuration.WithLabelValues("error").Observe(elapsed.Seconds())
		return
	}
	ScanDedupTotal.WithLabelValues("miss").Inc()
	ScansProcessedTotal.WithLabelValues(string(eventType)).Inc()
	ScanProcessingDuration.WithLabelValues(string(eventType)).Observe(elapsed.Seconds())
}
