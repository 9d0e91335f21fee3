package domain

// JobStatus indicates where a job sits in its commercial lifecycle.
type JobStatus string

const (
	JobQuoted    JobStatus = "QUOTED"
	JobActive    JobStatus = "ACTIVE"
	JobCompleted JobStatus = "COMPLETED"
	JobCancelled JobStatus = "CANCELLED"
)

// Job represents a contracted piece of work (an installation, a rewire, a
// commissioning visit). Each job owns exactly one JobFinancial record,
// created with it and destroyed with it.
type Job struct {
	JobID       string    `json:"jobID"` // Primary key (UUID)
	Title       string    `json:"title"`
	ClientName  string    `json:"clientName"`
	SiteAddress string    `json:"siteAddress"`
	Status      JobStatus `json:"status"`
	AuditFields
}
