package rules

// Risk levels attached to events.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Anomaly labels. Multi-label: one event can carry several.
const (
	AnomalyGeographic = "Geographic Anomaly"
	AnomalyTime       = "Time Anomaly"
	AnomalyAccess     = "Access Pattern Anomaly"
	AnomalyFailedAuth = "Failed Authentication"
	AnomalyPrivilege  = "Privilege Escalation"
	AnomalyGeneral    = "General Anomaly"
)

// Operations with fixed meaning to the rules. Comparison is case
// sensitive, matching how the unified audit log spells them.
const (
	OpSoftDelete         = "SoftDelete"
	OpMoveToDeletedItems = "MoveToDeletedItems"
	OpFileAccessed       = "FileAccessed"
	OpFileModified       = "FileModified"
	OpUserLogin          = "UserLogin"
	OpUserLoginFailed    = "UserLoginFailed"
	OpPasswordReset      = "PasswordReset"
)

// A user whose events span more than this many distinct client addresses
// trips the diversity clause of the suspicious-activity predicate.
const ipDiversityThreshold = 3

// destructiveOps trip the suspicious-activity predicate on their own.
var destructiveOps = map[string]bool{
	OpSoftDelete:         true,
	OpMoveToDeletedItems: true,
}

// Operation weights for the risk score.
var highRiskOps = map[string]bool{
	OpSoftDelete:         true,
	OpMoveToDeletedItems: true,
	OpUserLoginFailed:    true,
	OpPasswordReset:      true,
}

var lowRiskOps = map[string]bool{
	OpFileAccessed: true,
	OpFileModified: true,
	OpUserLogin:    true,
}

// highRiskCountries carry the maximum geography weight. Unknown (failed
// resolution) rides with them.
var highRiskCountries = map[string]bool{
	"Unknown": true,
	"CN":      true,
	"RU":      true,
	"KP":      true,
	"IR":      true,
}

// trustedCountries skip the moderate geography weight.
var trustedCountries = map[string]bool{
	"US": true,
	"CA": true,
	"GB": true,
	"DE": true,
	"FR": true,
	"AU": true,
	"JP": true,
}

// accessPatternOps mark deletion and credential-reset activity.
var accessPatternOps = map[string]bool{
	OpSoftDelete:         true,
	OpMoveToDeletedItems: true,
	OpPasswordReset:      true,
}

// Substring vocabularies for the name-based labels.
var (
	failedAuthKeywords = []string{"Failed", "Denied"}
	privilegeKeywords  = []string{"Admin", "Elevate", "Grant"}
)
