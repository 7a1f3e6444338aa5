// Package health reports the availability of the remote dependencies a
// process calls.
//
// Each dependency registers a Checker under its dependency name. The usual
// checker is a DependencyChecker, which reads a client's circuit breaker
// and rate limiter state instead of sending probe traffic:
//
//	reg := health.NewRegistry()
//	reg.Register(health.NewDependencyChecker(searchClient))
//	reg.Register(health.NewDependencyChecker(newsClient))
//
//	status, results := reg.Summary(ctx)
//
// An open breaker makes a dependency unhealthy; a probing breaker or an
// exhausted rate budget makes it degraded. Routes mounts the standard
// probe endpoints:
//
//	health.Routes(mux, reg)   // /healthz, /readyz, /health
package health
