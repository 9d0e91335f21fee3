package models

// JobStatus mirrors domain.JobStatus for DB storage.
type JobStatus string

// Job is the DB representation of a job.
type Job struct {
	JobID       string    `db:"job_id"`
	Title       string    `db:"title"`
	ClientName  string    `db:"client_name"`
	SiteAddress string    `db:"site_address"`
	Status      JobStatus `db:"status"`
	AuditFields
}
