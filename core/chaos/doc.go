// Package chaos defines the fault-injection backend contract: provisioning the
// sandbox, firing a template's chaos command, and detecting that the trainee
// repaired the fault. Concrete implementations live under integration/backend.
package chaos
