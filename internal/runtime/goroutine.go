package runtime

import (
	"context"

	"github.com/raqolbi/hello-api/internal/log"
)

// SafeGoWithContextAndComponent runs fn in a new goroutine guarded by
// RecoverWithPolicyAndContext. The goroutine receives ctx unchanged.
//
//	runtime.SafeGoWithContextAndComponent(ctx, logger, "server", "http_serve", runtime.KeepRunning,
//	    func(ctx context.Context) {
//	        serveErr <- app.Listener(ln)
//	    })
func SafeGoWithContextAndComponent(
	ctx context.Context,
	logger log.Logger,
	component, name string,
	policy PanicPolicy,
	fn func(context.Context),
) {
	if fn == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		defer RecoverWithPolicyAndContext(ctx, logger, component, name, policy)

		fn(ctx)
	}()
}
