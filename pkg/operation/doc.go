/*
Package operation provides the cleaning and mirroring pipeline for blocksweep.

	+-----------+     +-----------+     +-----------+
	|   Clean   | --> |   Sync    | --> |  Status   |
	| (filter)  |     | (mirror)  |     | (verify)  |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Clean: filter every source list file through the liveness checker into the
  cleaned tree, recording per-file results in the lock file
- Sync: mirror the cleaned tree into the backup tree byte-for-byte
- Status: report drift between sources, copies and the last recorded run
  without touching the network

🔄 Flow:
1. A runner executes operations sequentially (optionally on a goroutine)
2. Each operation reports per-file results through the status manager
3. Clean persists what it saw so Status can compare later

📝 Design Philosophy:
Filesystem problems fail the run loudly. Network problems never do; a dead
URL is a result, not an error. Sync never diffs: the backup is a full mirror
and copying it twice is harmless.
*/
package operation
