// Package javascript parses Node.js manifests.
//
// # Manifest Parsing
//
// [PackageJSON] reads dependencies, devDependencies, peerDependencies and
// optionalDependencies, in that order, so a name declared in more than one
// section keeps its most significant role:
//
//	parser, _ := javascript.Language.Manifest("package.json")
//	m, _ := parser.Parse("package.json")
//
// Workspace members are resolved from the "workspaces" field (array or
// {"packages": [...]}) or, when that is absent, from the packages list of
// an adjacent pnpm-workspace.yaml. Only single-segment "dir/*" globs and
// literal directories are expanded.
//
// [PackageJSON]: github.com/matzehuels/stackprint/pkg/deps/javascript.PackageJSON
package javascript
