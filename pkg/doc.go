// Package pkg provides the core libraries for stackprint project
// fingerprinting.
//
// # Overview
//
// A fingerprint combines two views of a project:
//
//  1. [deps] - the package manager in use and the normalized dependency
//     manifest (npm, yarn, pnpm, pip, cargo, go)
//  2. [patterns] - coding patterns inferred from the source tree
//     (frameworks, state management, component style, top imports)
//
// # Architecture
//
// The data flow through stackprint:
//
//	project root
//	     ├─→ [deps] Detect → ManifestParser.Parse → Manifest
//	     └─→ [analyzer] Collect → [syntax] Registry.AnalyzeFile (worker pool)
//	                                  ↓
//	                      [patterns] Detect → ProjectPatterns
//	     ↓
//	[fingerprint] Runner (cached via [cache]) → Fingerprint (JSON/YAML)
//
// # Quick Start
//
//	runner := fingerprint.NewRunner(cache.NewNullCache(), nil, nil, nil)
//	fp, _, err := runner.Fingerprint(ctx, "/path/to/project", fingerprint.Options{
//	    Config: analyzer.DefaultConfig(),
//	})
//
// Supporting packages: [errors] (code-tagged errors), [observability]
// (instrumentation hooks) and [buildinfo] (version metadata).
package pkg
