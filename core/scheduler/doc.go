// Package scheduler runs the background loop of the trainer: auto-starting a
// challenge after a randomized idle delay and sending throttled reminder
// notifications while one is outstanding. The loop shares the session
// manager's lock discipline and never overwrites a challenge it did not start.
package scheduler
