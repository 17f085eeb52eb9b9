package logger

import (
	"fmt"
	"time"
)

// LogPageProgress logs a finished listing page
func LogPageProgress(l Logger, page, total, players int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(page) / float64(total) * 100
	}

	l.WithFields(map[string]interface{}{
		"page":       page,
		"total":      total,
		"players":    players,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Listing page parsed")
}

// LogAssetFailure logs one failed image download
func LogAssetFailure(l Logger, kind, playerID, url string, err error) {
	l.WithFields(map[string]interface{}{
		"kind":      kind,
		"player_id": playerID,
		"url":       url,
	}).WithError(err).Warn("Asset download failed")
}

// LogRecovery logs the state of the retry queue
func LogRecovery(l Logger, queued, fixed, unavailable int) {
	l.WithFields(map[string]interface{}{
		"queued":      queued,
		"fixed":       fixed,
		"unavailable": unavailable,
	}).Info("Retry queue progress")
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, settings map[string]interface{}) {
	l = l.WithField("component", component)
	if len(settings) > 0 {
		l = l.WithFields(settings)
	}
	l.Info("Component started")
}

// LogPhase logs the duration of a finished crawl phase
func LogPhase(l Logger, phase string, started time.Time) {
	l.WithFields(map[string]interface{}{
		"phase":    phase,
		"duration": time.Since(started),
	}).Info("Phase completed")
}
