// Package deps detects a project's package manager and parses its manifest
// into a normalized dependency list.
//
// # Overview
//
// A project is inspected in two steps:
//
//  1. [Detect] picks exactly one manifest in the project root, following a
//     fixed priority (Node lockfiles, package.json, pyproject.toml,
//     requirements.txt, Cargo.toml, go.mod).
//  2. A [ManifestParser] from one of the language subpackages turns that
//     file into a [Manifest].
//
//	det, err := deps.Detect(root)
//	if err != nil {
//	    return err // UNSUPPORTED_ECOSYSTEM or INVALID_PATH
//	}
//	parser, _ := deps.DetectManifest(det.ManifestPath, javascript.Language.Parsers()...)
//	m, err := parser.Parse(det.ManifestPath)
//
// # Normalization
//
// Every parser shares the same rules:
//
//   - [CleanVersion] reduces a specifier such as "^18.2.0" or ">=2.0 <3.0"
//     to a single version; the original is kept as RawVersion only when
//     cleaning changed it.
//   - [ClassifySource] derives the [Source] from the specifier prefix.
//   - [Collector] keeps each name once, letting a prod declaration win over
//     peer, optional and dev declarations.
//
// A bare name without a constraint gets the version "latest".
//
// # Supported Languages
//
// Each language has a subpackage with its [Language] definition:
//
//   - [javascript]: package.json (npm, yarn, pnpm), workspace members
//   - [python]: requirements.txt, pyproject.toml (PEP 621 and Poetry)
//   - [rust]: Cargo.toml, workspace members
//   - [golang]: go.mod
//
// [javascript]: github.com/matzehuels/stackprint/pkg/deps/javascript
// [python]: github.com/matzehuels/stackprint/pkg/deps/python
// [rust]: github.com/matzehuels/stackprint/pkg/deps/rust
// [golang]: github.com/matzehuels/stackprint/pkg/deps/golang
package deps
