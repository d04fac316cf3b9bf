// Package monitor implements the live outlet view of the netcommander CLI.
//
// The view polls the device through a Controller (normally a
// *coordinator.Coordinator) and lets the user switch outlets from the
// keyboard:
//
//	1..9  switch that outlet to the opposite of its current state
//	a     all outlets on
//	o     all outlets off
//	r     refresh now
//	q     quit
//
// Only one device call is in flight at a time; keys pressed meanwhile are
// dropped.
package monitor
