// Package analyzer implements the heuristic usage-classification engine.
//
// Given a declared model table and a candidate file list, the analyzer
// scans each file with a layered set of pattern detectors of varying
// confidence, aggregates the signals per file and per model, and assigns
// each model a five-level risk classification describing how safe it would
// be to remove.
//
// The engine is deliberately lexical: it never builds an AST or resolves
// symbols, and its verdicts are risk tiers for human review, not proofs.
// Model names that collide with common words will over-match under the
// weak tiers; the classifier compensates by letting only the strong tiers
// (database operations, API endpoints) produce a SAFE verdict on their own.
//
// # Basic Usage
//
//	models, err := schema.Load("schema.prisma")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a := analyzer.New(models, files, analyzer.Options{})
//	result, err := a.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, u := range result.Usages() {
//	    fmt.Printf("%s: %s (confidence %d)\n", u.Model, u.Risk, u.Confidence)
//	}
package analyzer
