package genr

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// Shared pools for synthetic audit export generation.

// RoutineOps are the everyday operations that make up most of an export.
var RoutineOps = []string{
	"UserLogin", "FileAccessed", "FileModified", "FileDownloaded",
	"SearchQueryPerformed", "MailItemsAccessed", "PageViewed",
}

// DestructiveOps remove or hide content.
var DestructiveOps = []string{"SoftDelete", "MoveToDeletedItems", "HardDelete"}

// AuthFailureOps are rejected authentication or access attempts.
var AuthFailureOps = []string{"UserLoginFailed", "FileAccessDenied", "MailboxLoginFailed"}

// AdminOps touch credentials or privileges.
var AdminOps = []string{"PasswordReset", "AdminRoleGranted", "ElevateUserPrivilege", "GrantMailboxPermission"}

// RandomRoutineOp returns a random operation from RoutineOps
func RandomRoutineOp() string {
	return RoutineOps[gofakeit.Number(0, len(RoutineOps)-1)]
}

// RandomDestructiveOp returns a random operation from DestructiveOps
func RandomDestructiveOp() string {
	return DestructiveOps[gofakeit.Number(0, len(DestructiveOps)-1)]
}

// RandomAuthFailureOp returns a random operation from AuthFailureOps
func RandomAuthFailureOp() string {
	return AuthFailureOps[gofakeit.Number(0, len(AuthFailureOps)-1)]
}

// RandomAdminOp returns a random operation from AdminOps
func RandomAdminOp() string {
	return AdminOps[gofakeit.Number(0, len(AdminOps)-1)]
}

// InternalIPs are private addresses from the office networks.
var InternalIPs = []string{
	"192.168.1.25", "192.168.1.82", "192.168.1.141",
	"10.0.4.17", "10.0.4.99", "172.16.8.30",
}

// USIPs look like domestic residential egress addresses.
var USIPs = []string{
	"73.114.52.8", "98.217.44.91", "24.34.112.7",
	"66.30.184.22", "71.232.19.140", "97.81.206.55",
}

// ForeignIPs look like overseas egress addresses, including ranges that
// score high downstream.
var ForeignIPs = []string{
	"185.220.101.34", "91.219.237.21", "103.75.201.4",
	"196.251.73.88", "200.3.192.71", "45.155.205.233",
}

// RandomInternalIP returns a random address from InternalIPs
func RandomInternalIP() string {
	return InternalIPs[gofakeit.Number(0, len(InternalIPs)-1)]
}

// RandomUSIP returns a random address from USIPs
func RandomUSIP() string {
	return USIPs[gofakeit.Number(0, len(USIPs)-1)]
}

// RandomForeignIP returns a random address from ForeignIPs
func RandomForeignIP() string {
	return ForeignIPs[gofakeit.Number(0, len(ForeignIPs)-1)]
}

// FileStems and FileExtensions combine into shared-drive style file names.
var FileStems = []string{
	"Q1_Forecast", "Q3_Forecast", "payroll_2024", "board_minutes",
	"customer_list", "vendor_contracts", "engineering_roadmap",
	"offboarding_checklist", "sales_pipeline", "benefits_enrollment",
	"incident_report", "budget_draft",
}

var FileExtensions = []string{"xlsx", "docx", "pdf", "pptx", "csv"}

// RandomFileName returns a random stem/extension combination
func RandomFileName() string {
	stem := FileStems[gofakeit.Number(0, len(FileStems)-1)]
	ext := FileExtensions[gofakeit.Number(0, len(FileExtensions)-1)]
	return fmt.Sprintf("%s.%s", stem, ext)
}

// BadTimestamps are the CreationDate values broken exports actually carry:
// blanks, placeholder text and the Excel narrow-column mangle.
var BadTimestamps = []string{"", "N/A", "#####", "pending"}

// RandomBadTimestamp returns a random value from BadTimestamps
func RandomBadTimestamp() string {
	return BadTimestamps[gofakeit.Number(0, len(BadTimestamps)-1)]
}
