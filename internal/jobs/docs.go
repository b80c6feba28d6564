// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping the request path should not pay for.
//
// # Available Jobs
//
// 1. LocationSweepJob - Runs every 30 seconds to evict expired pings from
// the in-process live location cache. Only needed when the cache has no
// native TTL expiry; the Redis-backed cache expires entries itself and runs
// without this job.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the cache to sweep
//	jobManager := jobs.NewJobManager(cache, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Sweep runs are self-contained: a sweep never returns an error, it only
// reports how many entries it dropped. Failed job starts are returned to
// the caller so startup can abort cleanly.
package jobs
