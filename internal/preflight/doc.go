// Package preflight runs the environment checks behind 'everyfind doctor':
// settings validity, writable config and log directories, whether the
// index provider can be reached, whether a bridge is listening, and the
// process limits the bridge relies on.
//
//	checker := preflight.New(preflight.WithOutput(os.Stdout))
//	results := checker.RunAll(ctx, target)
//	if checker.HasCriticalFailures(results) {
//	    // settings or directories are unusable
//	}
package preflight
