package notifications

import (
	"fmt"
	"time"

	"github.com/ayursutra/panchakarma-platform/internal/catalog"
)

// Notification types written to the schedule journal.
const (
	TypePostProcedure = "Post-Procedure"
)

// PreProcedureMessage builds the combined booking confirmation and Purvakarma
// instruction text sent immediately after booking.
func PreProcedureMessage(therapyID string, day time.Time) string {
	return fmt.Sprintf(
		"Namaste. Your %s (Shodhan) is scheduled for %s. Start 'Snehapana' (Oleation) as prescribed. Avoid heavy meals. - Ayursutra Center",
		therapyDisplayName(therapyID), day.Format("January 2, 2006"),
	)
}

// PostProcedureMessage builds the Paschatkarma recovery text dispatched after
// the session.
func PostProcedureMessage(therapyID string) string {
	return fmt.Sprintf(
		"Pranams. Post-%s, strictly follow 'Samsarjana Krama' (Graduated Diet). Avoid cold water & wind. Rest well to restore Agni. - Ayursutra Center",
		therapyDisplayName(therapyID),
	)
}

func therapyDisplayName(therapyID string) string {
	if t, ok := catalog.ByID(therapyID); ok {
		return t.SanskritName
	}
	return therapyID
}
