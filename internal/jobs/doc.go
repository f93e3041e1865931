// Package jobs implements background work for the Notes API.
//
// Jobs run on their own ticker, independently of HTTP request handling, and
// log failures instead of stopping. Each job offers Start/Stop for the server
// lifecycle and RunOnce for tests and manual triggers.
//
//	audit := jobs.NewOrphanAudit(noteRepo, collector, 10*time.Minute)
//	audit.Start()
//	defer audit.Stop()
package jobs
