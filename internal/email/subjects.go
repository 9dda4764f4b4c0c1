package email

import "fmt"

const (
	subjectEscalationHumanFmt     = "Klant %s vraagt om een medewerker"
	subjectEscalationComplaintFmt = "Klacht ontvangen van %s"
	subjectEscalationHotLeadFmt   = "Hot lead: %s is klaar om te kopen"
	subjectEscalationDefaultFmt   = "Gesprek met %s vraagt om aandacht"
)

func escalationSubject(alert EscalationAlert) string {
	who := alert.LeadName
	if who == "" {
		who = alert.LeadPhone
	}
	switch alert.EscalationType {
	case "human_request":
		return fmt.Sprintf(subjectEscalationHumanFmt, who)
	case "complaint":
		return fmt.Sprintf(subjectEscalationComplaintFmt, who)
	case "hot_lead":
		return fmt.Sprintf(subjectEscalationHotLeadFmt, who)
	default:
		return fmt.Sprintf(subjectEscalationDefaultFmt, who)
	}
}
