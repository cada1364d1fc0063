package events

const (
	SubjectPlanRequest = "transit.plan.request"

	StreamName   = "TRANSIT_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// StreamSubjects is the subject space captured by the stream. The
// inbound request subject is included under transit.plan.>.
var StreamSubjects = []string{"transit.plan.>", "transit.group.>"}

func SubjectPlanRequested(planID string) string { return "transit.plan." + planID + ".requested" }
func SubjectPlanStarted(planID string) string   { return "transit.plan." + planID + ".started" }
func SubjectPlanCompleted(planID string) string { return "transit.plan." + planID + ".completed" }
func SubjectPlanFailed(planID string) string    { return "transit.plan." + planID + ".failed" }
func SubjectPlanTimeout(planID string) string   { return "transit.plan." + planID + ".timeout" }

func SubjectPlanUnassigned(planID string) string { return "transit.plan." + planID + ".unassigned" }

func SubjectGroupCreated(groupID string) string { return "transit.group." + groupID + ".created" }
