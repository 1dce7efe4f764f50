package analyzer

// Per-control remediation suggestions attached to identified gaps. Controls
// without a specific entry fall back to the generic suggestion.
var remediationSuggestions = map[string]string{
	"CC6.1": "Implement multi-factor authentication, establish role-based access controls, and document access policies.",
	"CC6.2": "Create formal user registration procedures with management approval workflow and maintain access request records.",
	"CC6.3": "Implement automated deprovisioning, conduct quarterly access reviews, and document termination procedures.",
	"CC7.2": "Deploy SIEM solution, configure alerting thresholds, and establish 24/7 monitoring procedures.",
	"CC7.3": "Develop incident response playbooks, define severity levels, and conduct regular tabletop exercises.",
	"CC8.1": "Implement change management ticketing system, require testing before deployment, and maintain change logs.",
	"CC9.1": "Conduct annual risk assessments, maintain risk register, and document risk treatment decisions.",
	"A1.2":  "Define RTO/RPO objectives, implement automated backups, and conduct regular recovery testing.",
}

const genericRemediation = "Review control requirements and implement appropriate measures."

func remediationFor(controlID string) string {
	if s, ok := remediationSuggestions[controlID]; ok {
		return s
	}
	return genericRemediation
}
