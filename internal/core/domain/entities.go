package domain

// Role represents account role in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// LeadStatus is the closed set of states a lead can be in
type LeadStatus string

const (
	StatusPending          LeadStatus = "Pending"
	StatusInProgress       LeadStatus = "In Progress"
	StatusApproved         LeadStatus = "Approved"
	StatusRejected         LeadStatus = "Rejected"
	StatusCompleted        LeadStatus = "Completed"
	StatusCancelled        LeadStatus = "Cancelled"
	StatusNotInterested    LeadStatus = "Not Interested"
	StatusFollowUp         LeadStatus = "Follow Up"
	StatusBusy             LeadStatus = "Busy"
	StatusCallLater        LeadStatus = "Call Later"
	StatusMeetingScheduled LeadStatus = "Meeting Scheduled"
	StatusNotAnswering     LeadStatus = "Not Answering"

	// Legacy statuses kept so older records stay valid
	StatusNew       LeadStatus = "New"
	StatusContacted LeadStatus = "Contacted"
	StatusQualified LeadStatus = "Qualified"
	StatusConverted LeadStatus = "Converted"
	StatusLost      LeadStatus = "Lost"
)

// LeadStatuses lists every accepted status in display order
var LeadStatuses = []LeadStatus{
	StatusPending,
	StatusInProgress,
	StatusApproved,
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
	StatusNotInterested,
	StatusFollowUp,
	StatusBusy,
	StatusCallLater,
	StatusMeetingScheduled,
	StatusNotAnswering,
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusConverted,
	StatusLost,
}

// Valid reports whether s belongs to the status enum
func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DateLayout is the calendar-date format used by lead date and nfd
const DateLayout = "2006-01-02"

// UnknownEmployee labels leads whose generatedBy is empty in groupings
const UnknownEmployee = "Unknown"
