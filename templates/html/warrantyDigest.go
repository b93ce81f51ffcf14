package templates

import (
	"fmt"
	"strings"

	"github.com/linesmerrill/gun-locker-api/stats"
)

// RenderWarrantyDigest builds the daily warranty digest body from the alert
// list, one line per item, most urgent first
func RenderWarrantyDigest(alerts []stats.WarrantyAlert) string {
	var b strings.Builder
	b.WriteString("The following items have warranties that are expired or expiring soon:\n\n")
	for _, alert := range alerts {
		switch {
		case alert.DaysRemaining < 0:
			b.WriteString(fmt.Sprintf("- %s (%s): expired %d days ago (%s)\n",
				alert.Name, alert.Category, -alert.DaysRemaining, alert.ExpiryDate))
		case alert.DaysRemaining == 0:
			b.WriteString(fmt.Sprintf("- %s (%s): expires today (%s)\n",
				alert.Name, alert.Category, alert.ExpiryDate))
		default:
			b.WriteString(fmt.Sprintf("- %s (%s): expires in %d days (%s)\n",
				alert.Name, alert.Category, alert.DaysRemaining, alert.ExpiryDate))
		}
	}
	b.WriteString("\nReview them in your locker before the coverage runs out.")
	return RenderGenericEmail("Warranty Digest", b.String())
}
