// Package shutdown provides graceful shutdown for LoriKV.
//
// A Handler listens for SIGINT and SIGTERM and runs registered cleanup
// hooks in reverse registration order under a shared timeout:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	if err := h.Wait(); err != nil {
//		log.Error("shutdown error", "error", err)
//	}
package shutdown
