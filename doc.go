// Package tradetracker provides the core types and logic for a small
// export/import trade ledger that can be shared between several devices
// through a remote snapshot file.
//
// The core functionalities include:
//   - Ledger Management: recording export and import transactions with
//     free-form descriptions, per-transaction comments, filtering,
//     sorting, and pagination.
//   - Profit Reporting: period-bounded (day/week/month) profit
//     aggregation grouped by currency, and a monthly totals series.
//   - Workspace Model: a shared ledger identified by a 6-character code,
//     with a member roster, creator/writer/reader roles, a bounded
//     activity log, and a managed currency list.
//   - Snapshot Codec: the JSON document that carries the complete
//     workspace state to and from the remote store, plus a local
//     export/import format for personal backups.
//   - Currency Conversion: USD-pivot conversion over a fetched rate
//     table.
//
// This package serves as the foundational logic for the `tt`
// command-line tool; synchronization itself lives in the syncer
// subpackage.
package tradetracker
