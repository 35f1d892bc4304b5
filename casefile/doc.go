// SPDX-License-Identifier: MIT

// Package casefile loads power flow cases from TOML or YAML.
//
// A case names its buses by ID; every other element references buses by
// that ID. Element tables may be omitted, and in_service defaults to true.
//
//	name = "three bus"
//
//	[solver]
//	max_iterations = 20
//	tolerance = 0.001   # p.u.
//	sbase = 100         # MVA
//
//	[[bus]]
//	id = "N1"
//	base_kv = 230
//	slack = true
//
//	[[branch]]
//	id = "L12"
//	from = "N1"
//	to = "N2"
//	r = 0.01
//	x = 0.1
//
//	[[generator]]
//	id = "G1"
//	bus = "N1"
//	p = 50
//	qmin = -100
//	qmax = 100
//	reg_kv = true
//	vset = 1.02
//
// YAML uses the same keys, with the tables as sequences under bus, branch,
// generator, svc, load and shunt.
//
// Errors:
//
//   - ErrFormat:        unrecognized file extension or Format value.
//   - network.ErrModel: unknown bus reference or inconsistent element data.
//   - decoder errors are wrapped with the format name.
package casefile
