// Package reconcile implements an interactive reconciliation engine for
// plain-text ledger files. It lets a user match uncleared transactions
// recorded in a ledger document against an external source of truth (a
// bank statement, typically) and mark them pending or cleared while
// tracking a running balance toward a target amount.
//
// The core responsibilities are:
//   - Query Execution: invoking the external `ledger` tool to obtain a
//     structured, sorted list of uncleared transactions for an account.
//   - View Rendering: turning that list into a line-addressable view
//     using a user-configurable column format.
//   - Line Bindings: maintaining a mapping from every rendered line back
//     to the (document, line) where the posting lives in the source.
//   - Clearing Lifecycle: the uncleared → pending → cleared state machine
//     per posting, with toggle and bulk-finish transitions written back
//     into the source document.
//   - Balance Tracking: the cleared-or-pending balance and its delta from
//     the reconciliation target.
//
// The package does not parse the ledger grammar or perform commodity
// arithmetic beyond subtraction and zero tests; those concerns belong to
// the ledger binary it drives. Presentation chrome (highlighting, keys,
// window layout) belongs to the host; the tui package provides a
// terminal host, and the lrec command-line tool ties it all together.
package reconcile
