package dialogue

import "github.com/felipe-codebit/prototipo-zap/internal/session"

// Thresholds tune intent resolution.
type Thresholds struct {
	// Override is the confidence a new intent needs to interrupt a task that
	// already has collected data.
	Override float64
	// WaitingBreak is the confidence a different intent needs for the message
	// not to be read as the answer to a pending question.
	WaitingBreak float64
}

// DefaultThresholds returns the production values.
func DefaultThresholds() Thresholds {
	return Thresholds{Override: 0.8, WaitingBreak: 0.7}
}

// stickyExempt intents never hold on to the conversation.
var stickyExempt = map[session.Intent]bool{
	session.IntentNone:     true,
	session.IntentGreeting: true,
	session.IntentFarewell: true,
	session.IntentUnclear:  true,
}

// ResolveIntent picks the intent that handles this turn. While a task is in
// progress (a non-exempt intent with collected slots) the current intent is
// kept unless the candidate is confident and clear. kept reports whether the
// current intent won.
func ResolveIntent(cur session.Context, cand Classification, override float64) (intent session.Intent, confidence float64, kept bool) {
	midTask := !stickyExempt[cur.CurrentIntent] && cur.Data.HasSlots()
	if midTask && (cand.Confidence < override || cand.Intent == session.IntentUnclear) {
		return cur.CurrentIntent, cur.IntentConfidence, true
	}
	return cand.Intent, cand.Confidence, false
}

// answersPending reports whether intent can own a pending question.
func answersPending(intent session.Intent) bool {
	return intent.IsTask() || intent == session.IntentRevisePlan
}
