// Package deps collects installed npm packages and binds their declared
// requirements to concrete installed copies.
//
// # Overview
//
// Resolution runs in two phases over an arena of [Instance] values:
//
//  1. [Collect] walks node_modules (including scope directories and nested
//     node_modules) and reads one [Instance] per package manifest.
//  2. [Resolver.Resolve] parses each declared specifier with the
//     [requirement] package and binds it to the newest installed instance
//     of that name that satisfies it.
//
// The project's own manifest is loaded with [LoadRoot] and appended to the
// [Pool] before resolution.
//
// # Naming
//
// The directory a package is installed under names it. A package at
// node_modules/@scope/pkg is "@scope/pkg" even if its manifest says
// otherwise, and an npm alias installed at node_modules/alias is "alias".
// The manifest's own name is kept as [Instance.DeclaredName].
//
// # Diamond Dependencies
//
// When two packages need incompatible versions of the same dependency, npm
// installs one copy at the top level and another in a nested node_modules.
// Both copies become distinct instances, and each requirement binds to the
// copy its specifier accepts.
//
// # Failures
//
// Unreadable manifests abort collection with
// [errors.ErrCodeManifestUnreadable]. Requirements that cannot be bound are
// returned as [Diagnostic] values and never abort resolution:
//
//   - MALFORMED_REQUIREMENT: the specifier does not parse
//   - NAME_NOT_IN_POOL: nothing with that name is installed
//   - NO_VERSION_MATCH: installed copies exist but none satisfies the specifier
//   - NON_CONFORMANT: bound, but Masterminds/semver disagrees ([Options.VerifySemver])
//
// [requirement]: github.com/matzehuels/nmgraph/pkg/deps/requirement
// [errors.ErrCodeManifestUnreadable]: github.com/matzehuels/nmgraph/pkg/errors.ErrCodeManifestUnreadable
package deps
