// Package component recognizes SIMP component directories: Puppet modules
// published under the simp namespace and RPM-packaged assets with a single
// build/*.spec file.
package component
