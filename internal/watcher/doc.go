// Package watcher reports changes to the inputs of a component's acceptance
// matrix check using fsnotify. Changes are debounced into batches so that a
// burst of edits, such as a git checkout, triggers a single re-check.
package watcher
