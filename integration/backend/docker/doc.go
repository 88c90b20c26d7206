// Package docker implements the fault-injection backend over the docker CLI.
// The sandbox is a long-lived container; chaos and check commands run inside
// it via docker exec, mirroring how the trainee logs in to repair the fault.
package docker
