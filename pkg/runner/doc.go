// Package runner orchestrates export runs on top of the step-based
// engine in pkg/export.
//
// The engine itself only ever advances one step at a time; this
// package supplies the three orchestration layers built around it:
//
//   - Runner drives a single run step-by-step to completion, applying
//     a per-step deadline and forwarding progress and metrics.
//   - Scheduler fires export jobs on cron schedules, building a fresh
//     runner per invocation through a RunnerFactory.
//   - JobsWatcher hot-reloads the jobs file when it changes on disk.
//
// Jobs are declared in a YAML file:
//
//	jobs:
//	  - name: nightly-orders
//	    schedule: "0 3 * * *"
//	    format: csv
//	    source:
//	      path: /var/lib/app/orders.db
//	      table: orders
//	      order_by: id
//
// The runner has no retry policy. A failed run stays failed; the next
// scheduled invocation starts a fresh run against a fresh artifact.
package runner
