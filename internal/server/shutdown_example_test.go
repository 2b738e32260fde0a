package server_test

import (
	"errors"
	"fmt"

	"github.com/raqolbi/hello-api/internal/server"
)

func ExampleServerManager_StartWithGracefulShutdownWithError_validation() {
	sm := server.NewServerManager(nil, nil)
	err := sm.StartWithGracefulShutdownWithError()

	fmt.Println(errors.Is(err, server.ErrNoServersConfigured))

	// Output:
	// true
}
