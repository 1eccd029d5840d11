// Package fixtures builds component directory trees for tests.
//
//	c := fixtures.NewComponent(t, "pupmod-simp-foo").
//		Suite("default").
//		DefaultRunSuite("compliance").
//		GlobalNodesets("default", "centos").
//		GlobalNodesetLink("oel", "centos").
//		Pipeline(ciYAML)
//
//	info, err := suites.Discover(c.Root())
package fixtures
