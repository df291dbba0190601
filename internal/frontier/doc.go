// Package frontier owns the crawl queue, the visited set and the page budget.
//
// A Frontier is the only mutable state shared by crawl workers. Every
// operation takes the frontier mutex, so the check-and-insert on the visited
// set and the budget accounting are atomic with respect to each other.
//
// Two ways of driving it exist:
//   - Next, MarkVisited and RecordSuccess for a single-threaded loop
//   - Claim and Complete for concurrent workers; Claim dequeues, marks the
//     URL visited and reserves a budget slot in one step, and blocks while
//     other workers may still propose links
//
// Scope filtering has two independent gates: the candidate host must
// contain the seed's base domain as a substring, and the URL must not start
// with an excluded prefix. The substring rule is deliberately loose:
// "example.com" also admits "notexample.com".
package frontier
