// SPDX-License-Identifier: MIT

// Package gridflow is a steady-state AC power flow engine built on the
// fast-decoupled method, with generator and SVC reactive limits enforced
// during the iteration.
//
// What is in the module?
//
//	network/       grid model: buses, π-model branches, generators, SVCs,
//	               loads, shunts, islands and the branch-slot adjacency
//	elimination/   minimum-degree symbolic elimination patterns (Tinney 2)
//	sparse/        B-matrix numeric factorization and forward/back solves
//	bustype/       Reference / PV / PQ classification and PV → PQ transitions
//	mismatch/      active/reactive mismatch vectors and per-island convergence
//	reactive/      capability monitor and proportional var allocation
//	acflow/        π-model injections and branch flows (the default calculator)
//	pflow/         the iteration orchestrator and result commit
//	report/        mismatch reporters: summary table, CSV detail, chart
//	casefile/      TOML / YAML case loading
//	units/         MW/MVAr/kV/degree ↔ per-unit/radian conversions
//	cmd/gridflow   command-line driver
//
// Quick example:
//
//	c, err := casefile.Load("three_bus.toml")
//	if err != nil { ... }
//	s, err := pflow.New(c.Network, c.Solver.Options()...)
//	if err != nil { ... }
//	res, err := s.Run()
//	if err != nil { ... }
//	if err := s.UpdateResults(); err != nil { ... }
//	fmt.Println(res.Converged, c.Network.Buses[2].VM)
//
// Non-convergence is a result, not an error: inspect Result.Islands.
package gridflow
