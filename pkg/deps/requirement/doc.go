// Package requirement interprets npm dependency specifiers against concrete
// installed versions.
//
// # Overview
//
// A specifier such as "^1.2.0", ">=1.0.0 <2.0.0" or "1.x || 2.x" is parsed
// once into an immutable [Expr]: a tree whose leaves are [Atom] values
// (an [Op] plus a bound version) and whose inner nodes are AND or OR
// combinations. Parsing never touches the file system or network.
//
// # Grammar
//
// [Parse] tries the following forms in order, first match wins:
//
//  1. "npm:<name>@<rest>" alias: parse <rest> only
//  2. contains " || ": OR of the parsed parts
//  3. contains ">=" and "<": AND of the two bound clauses
//  4. "~X": [OpTilde]
//  5. "^X": [OpCaret]
//  6. ">=X": [OpGreaterOrEqual]
//  7. "<X": [OpLessThan]
//  8. starts with "http" or "git" (also "file:", "link:", "workspace:"): [OpGitRef]
//  9. "*" or "": [OpAny]
//  10. a bare integer N: [OpCaret] with bound N.0.0
//  11. anything else: [OpExact]
//
// Dot-free words that are not integers are dist-tags ("latest") and parse
// to [OpAny], or GitHub shorthand ("user/repo") and parse to [OpGitRef].
//
// # Versions
//
// [Compare] orders dotted numeric versions after stripping any "-" or "+"
// suffix. Versions are padded with zeros to at least three components and
// compared position by position. It is deliberately simpler than full semver
// precedence; [Conforms] offers a cross-check against Masterminds/semver.
//
// # Matching
//
// [Expr.Filter] selects the indices of the candidate versions an expression
// accepts, and [Latest] picks the greatest of them. Ties keep the earliest
// candidate, so selection is deterministic for a fixed candidate order.
package requirement
