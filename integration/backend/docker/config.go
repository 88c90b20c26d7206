package docker

import "time"

// Config holds sandbox container configuration.
type Config struct {
	// Container is the name of the sandbox container the trainee debugs.
	Container string `env:"SANDBOX_CONTAINER" envDefault:"trainee"`
	// Binary is the docker CLI executable.
	Binary string `env:"DOCKER_BIN" envDefault:"docker"`
	// ExecTimeout bounds every docker invocation.
	ExecTimeout time.Duration `env:"SANDBOX_EXEC_TIMEOUT" envDefault:"30s"`
}
