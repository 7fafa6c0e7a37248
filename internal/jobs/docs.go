// Package jobs provides scheduled background tasks for the order ledger.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations that no request triggers.
//
// # Available Jobs
//
// 1. SettlementJob - one per account kind; releases pending earnings whose settlement time has passed
// 2. AutoCompleteJob - completes delivered orders the buyer did not confirm in time
// 3. NotificationSweepJob - recreates notifications lost between a commit and its dispatch
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewSettlementJob(settleHandler, wallet.KindSeller, "0 0 0 * * MON", logger),
//		jobs.NewSettlementJob(settleHandler, wallet.KindCourier, "0 0 0 * * FRI", logger),
//		jobs.NewAutoCompleteJob(autoCompleteHandler, 24*time.Hour, "@every 1m", logger),
//		jobs.NewNotificationSweepJob(reconcileHandler, time.Hour, "@every 5m", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron form with a leading seconds field, or descriptors
// such as "@every 5m". A run that is still going when the next one is due is skipped.
//
// # Error Handling
//
// - Failed runs are logged and counted in orderledger_job_runs_total; the next run retries
// - Failed job starts stop any already running jobs
package jobs
