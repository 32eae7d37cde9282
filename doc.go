// Package lawnmower simulates a robotic lawn mower on a rectangular garden.
//
// 🌱 What is it?
//
//	A small, deterministic engine with two algorithms and the plumbing
//	around them:
//		• garden:   the grid of cells (lawn, cut lawn, obstacles, home, waypoints)
//		• mower:    the agent; senses neighbours, moves one cell, marks cells
//		• coverage: cuts every reachable cell and returns to the start
//		• seek:     greedy Manhattan walk to a target with backtracking
//		• pace:     pluggable per-move delays (none, timer, rate limiter)
//
// ✨ Around the core:
//
//	metrics: Prometheus counters and histograms for moves and runs
//	snapshot: binary .garden files
//	scenario: YAML scenarios (hand-drawn layouts or seeded random gardens)
//	bench: runs both algorithms and reports cut share, moves and timings
//	render: plain and lipgloss-coloured terminal output
//	cmd/mower: the command-line front end
//
// Quick ASCII example:
//
//	H....      H home (never re-entered)   # obstacle
//	.A#..      A start waypoint            B end waypoint
//	..#B.      . uncut lawn                * cut lawn
//
// Both algorithms take a context.Context; cancelling it stops the mower
// between moves, leaving the grid consistent.
//
//	go install github.com/katalvlaran/lawnmower/cmd/mower@latest
package lawnmower
