package routing

import (
	"payalert_backend/internal/models"
)

// Destination holds the per-role delivery endpoints.
type Destination struct {
	DashboardGroup string
	Email          string
}

// Special-purpose endpoints used by the high-priority extras.
const (
	ITSupportChatChannel = "#it-support-alerts"
	ITOnCallSMSList      = "it-on-call"
	FacultyEmergencyList = "faculty-emergency-list"
	GlobalAlertEmail     = "global-alerts@annauniv.edu"
	GlobalAlertSubject   = "Global Urgent Alert"
)

// directory maps each role to its dashboard group and mailbox. Static for
// now; a directory service would replace this table.
var directory = map[models.Role]Destination{
	models.RoleUniversityAdmin: {
		DashboardGroup: "university-admin-dashboard",
		Email:          "university.admin@annauniv.edu",
	},
	models.RoleCollegeAdmin: {
		DashboardGroup: "college-admin-dashboard",
		Email:          "college.admin@annauniv.edu",
	},
	models.RoleFinanceOfficer: {
		DashboardGroup: "finance-dashboard",
		Email:          "finance.officer@annauniv.edu",
	},
	models.RoleFaculty: {
		DashboardGroup: "faculty-dashboard",
		Email:          "faculty.group@annauniv.edu",
	},
	models.RoleITSupport: {
		DashboardGroup: "it-support-dashboard",
		Email:          "it.support@annauniv.edu",
	},
}

// Lookup returns the destination for a role. ok is false for roles the
// directory does not know.
func Lookup(role models.Role) (Destination, bool) {
	dest, ok := directory[role]
	return dest, ok
}
