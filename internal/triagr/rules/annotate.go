package rules

// Annotation fields written onto each event.
const (
	FieldAnomalousIP  = "anomalous_ip"
	FieldCompromised  = "compromised"
	FieldRiskScore    = "risk_score"
	FieldRiskLevel    = "risk_level"
	FieldAnomalyTypes = "anomaly_types"
)

// Annotate computes every rule output for the batch and attaches the
// results in place. The inputs the rules read are never touched, so
// re-annotating an already annotated batch reproduces the same values.
func (e *Engine) Annotate(events []Event) {
	diversity := BuildIPDiversity(events)
	for _, evt := range events {
		score := e.RiskScore(evt)
		evt[FieldAnomalousIP] = e.AnomalousIP(evt)
		evt[FieldCompromised] = e.Compromised(evt, diversity)
		evt[FieldRiskScore] = score
		evt[FieldRiskLevel] = RiskLevel(score)
		evt[FieldAnomalyTypes] = e.AnomalyTypes(evt)
	}
}
