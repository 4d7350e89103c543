/*
Package status manages file storage and status tracking for blocksweep.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Manages file storage operations for the cleaned and backup trees
- Tracks per-file results (new, modified, unchanged, kept/removed counts)
- Provides user-friendly status reporting
- Handles file system operations safely

🔄 Flow:
1. Receives filtered content from an operation
2. Writes files atomically, mirrors files preserving mod times
3. Tracks per-file status changes and entry counts
4. Reports changes in a user-friendly format

🤝 Interfaces:
- FileManager: Handles file operations
- StatusReporter: Reports status changes
- FileFormatter: Formats status messages
*/
package status
