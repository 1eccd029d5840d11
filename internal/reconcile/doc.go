// Package reconcile compares the expected acceptance-test matrix of a
// component with the matrix its pipeline declares.
//
// Every expected entry is classified as Present (some pipeline entry is
// identical), PresentViaDefaultJob (an argument-less pipeline job covers the
// entry's suite through its default-run suite set, with the same nodeset,
// platform version and security mode) or Absent.
package reconcile
