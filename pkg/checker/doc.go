/*
Package checker decides whether a blocklist entry still points at something
that exists on the internet.

	+---------+     +-----------+     +----------+
	|  line   | --> | Classify  | --> | Checker  |
	+---------+     +-----------+     +----+-----+
	                                       |
	                          +------------+------------+
	                          |                         |
	                    +-----+-----+            +------+-----+
	                    | Resolver  |            |  Prober    |
	                    | (DoH)     |            | (HEAD/GET) |
	                    +-----------+            +------------+

🎯 Purpose:
- Classifies raw lines (blank, comment, domain, URL, unparseable)
- Resolves domains over DNS-over-HTTPS across several public resolvers
- Probes candidate URLs over HTTP to confirm liveness
- Caches per-entry verdicts for the duration of a run

🔄 Flow:
1. Classify the line; comments and blanks pass through untouched
2. Bare domains are resolved first; sinkholed answers still count as present
3. Zones with authority get a www. retry before the direct probe
4. Full URLs skip resolution and go straight to the probe

📝 Design Philosophy:
A transport failure is a verdict (the entry is dead), never an error that
aborts the run. Only the caller's filesystem can fail a run.
*/
package checker
