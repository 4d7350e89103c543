/*
Package config manages configuration parsing and validation for blocksweep.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   YAML    |           |   HCL   |
	| Parser    |           | Parser  |
	+-----------+           +---------+

🎯 Purpose:
- Manages configuration loading and parsing
- Validates configuration values and applies defaults
- Describes the three directory trees (source, cleaned, backup)
- Configures the liveness check and the git commit step

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates configuration values
4. Provides validated config to other packages

📝 Design Philosophy:
Every knob has a default matching the original automation layout, so a run
with no config file at all cleans domains/ into cleaned/ and mirrors into
backup/. A config file only needs to state what differs.
*/
package config
