package runtime

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/raqolbi/hello-api/internal/log"
)

// ErrPanic is the sentinel recorded on spans for recovered panics.
var ErrPanic = errors.New("panic")

// RecoverAndLogWithContext recovers a panic, logs it and records it on the
// span found in ctx. Execution continues after the deferred call.
//
//	defer runtime.RecoverAndLogWithContext(ctx, logger, "server", "serve_loop")
func RecoverAndLogWithContext(ctx context.Context, logger log.Logger, component, name string) {
	if recovered := recover(); recovered != nil {
		handlePanic(ctx, logger, recovered, debug.Stack(), component, name)
	}
}

// RecoverWithPolicyAndContext recovers a panic, records it and then applies
// policy.
func RecoverWithPolicyAndContext(
	ctx context.Context,
	logger log.Logger,
	component, name string,
	policy PanicPolicy,
) {
	if recovered := recover(); recovered != nil {
		handlePanic(ctx, logger, recovered, debug.Stack(), component, name)

		if policy == CrashProcess {
			panic(recovered)
		}
	}
}

// HandlePanicValue records a panic value that was already recovered by
// something else, such as fiber's recover middleware. It never calls recover.
func HandlePanicValue(ctx context.Context, logger log.Logger, panicValue any, component, name string) {
	handlePanic(ctx, logger, panicValue, debug.Stack(), component, name)
}

func handlePanic(ctx context.Context, logger log.Logger, panicValue any, stack []byte, component, name string) {
	if ctx == nil {
		ctx = context.Background()
	}

	logPanicWithStack(ctx, logger, component, name, panicValue, stack)
	RecordPanicToSpanWithComponent(ctx, panicValue, stack, component, name)
}

func logPanicWithStack(ctx context.Context, logger log.Logger, component, name string, panicValue any, stack []byte) {
	if logger == nil {
		return
	}

	logger.Log(ctx, log.LevelError, "panic recovered",
		log.String("component", component),
		log.String("source", name),
		log.String("panic_value", fmt.Sprintf("%v", panicValue)),
		log.String("stack_trace", string(stack)),
	)
}
