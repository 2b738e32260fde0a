package log_test

import (
	"fmt"

	"github.com/raqolbi/hello-api/internal/log"
)

func ExampleParseLevel() {
	level, err := log.ParseLevel("warning")

	fmt.Println(err == nil)
	fmt.Println(level.String())

	// Output:
	// true
	// warn
}
