// Package persist provides the external key-value store the shell
// checkpoints into, plus the checkpoint read/write logic itself.
//
// Two Store implementations exist: Memory (tests and
// persistence-disabled sessions) and Bolt (a bbolt-backed file store).
// The core never waits on durability; checkpoint failures are logged
// and swallowed.
package persist
