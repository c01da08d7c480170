package housekeeping

import (
	"context"
	"time"

	"github.com/tomhendersonfl/conda/pkg/logging"
)

// housekeepingInterval is the interval at which housekeeping runs when
// invoked regularly via HousekeepRegularly.
const housekeepingInterval = 24 * time.Hour

// HousekeepRegularly runs Housekeep over cacheDirs at housekeepingInterval.
// It's designed to run as a background goroutine in a long-lived process
// embedding the engine as a library; it terminates when ctx is cancelled.
// The condalink CLI does not run housekeeping.
func HousekeepRegularly(ctx context.Context, cacheDirs []string, logger *logging.Logger) {
	logger.Println("Performing initial housekeeping")
	Housekeep(cacheDirs, logger)

	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Println("Performing regular housekeeping")
			Housekeep(cacheDirs, logger)
		}
	}
}
