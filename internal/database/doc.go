// Package database provides the SQLite document store for corpuscrawl.
//
// A Store holds two tables in one database file:
//   - the raw table (collection_name) with every fetched page
//   - the cleaned table (parsed_<collection_name>) rebuilt by each
//     cleaning pass
//
// The store uses modernc.org/sqlite, a CGO-free driver, with WAL enabled
// so the cleaning pass can read while a crawl is still writing.
package database
