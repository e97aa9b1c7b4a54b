// Package ir provides the foundational value types shared by every graphdsl
// package: node type names, edge classification and edge rules, plus the
// constrained value family used for canonical encoding.
//
// This package contains no compiler logic. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only encoding
//     used for content-addressed fingerprints
//   - Fingerprints use SHA-256 with a versioned domain prefix
package ir
